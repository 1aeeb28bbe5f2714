package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// decoders by file extension. Files without a known extension try each in turn.
var decoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
}

// ConfigRegistry is the validated content of a publishers file. It is
// read-only after LoadRegistry returns.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]int
}

// LoadRegistry reads, normalizes and validates a YAML or JSON publishers file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile(raw, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{idx: make(map[string]int, len(file.Publishers))}
	for i, entry := range file.Publishers {
		cfg := sanitizePublisherConfig(entry)
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.idx[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.idx[cfg.ID] = len(reg.publishers)
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

func decodeConfigFile(raw []byte, ext string) (configFile, error) {
	if decode, ok := decoders[ext]; ok {
		var file configFile
		if err := decode(raw, &file); err != nil {
			return configFile{}, fmt.Errorf("decode %s publishers file: %w", strings.TrimPrefix(ext, "."), err)
		}
		return file, nil
	}

	for _, decode := range []func([]byte, any) error{yaml.Unmarshal, json.Unmarshal} {
		var file configFile
		if err := decode(raw, &file); err == nil {
			return file, nil
		}
	}
	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

// ByID looks up a publisher entry.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.publishers[i], true
}

// All returns every entry in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.publishers...)
}

// Enabled returns the entries that are switched on, in file order.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
