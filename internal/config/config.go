package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	PublishersFile string `mapstructure:"publishers_file"`

	HNBaseURL             string        `mapstructure:"hn_base_url"`
	HNUserAgent           string        `mapstructure:"hn_user_agent"`
	StoryList             string        `mapstructure:"hn_story_list"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	MaxStories            int           `mapstructure:"max_stories"`
	RequestDelayMs        int64         `mapstructure:"request_delay_ms"`
	RequestDelay          time.Duration `mapstructure:"-"`
	PollIntervalSeconds   int64         `mapstructure:"poll_interval"`
	PollInterval          time.Duration `mapstructure:"-"`
	EnrichLinks           bool          `mapstructure:"enrich_links"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-hn-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("hn_base_url", "https://hacker-news.firebaseio.com")
	v.SetDefault("hn_user_agent", "samvad-hn-harvester/1.0")
	v.SetDefault("hn_story_list", "top")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("max_stories", 30)
	v.SetDefault("request_delay_ms", 250)
	v.SetDefault("poll_interval", 300) // seconds
	v.SetDefault("enrich_links", true)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((3*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	list, err := hn.ParseStoryList(cfg.StoryList)
	if err != nil {
		return fmt.Errorf("invalid hn_story_list: %w", err)
	}
	cfg.StoryList = string(list)
	if strings.TrimSpace(cfg.HNBaseURL) == "" {
		return fmt.Errorf("hn_base_url must not be empty")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.MaxStories < 0 {
		return fmt.Errorf("invalid max_stories (must be zero for all, or positive)")
	}
	if cfg.RequestDelayMs < 0 {
		return fmt.Errorf("invalid request_delay_ms (must not be negative)")
	}
	cfg.RequestDelay = time.Duration(cfg.RequestDelayMs) * time.Millisecond

	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
