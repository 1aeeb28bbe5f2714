package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/internal/config"
	"github.com/samvad-hq/samvad-hn-harvester/internal/harvest"
	"github.com/samvad-hq/samvad-hn-harvester/internal/logger"
	"github.com/samvad-hq/samvad-hn-harvester/internal/storage"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/publishers"
)

// passRunner is satisfied by *harvest.Service.
type passRunner interface {
	Run(ctx context.Context) (harvest.Result, error)
}

// Harvester represents the HN harvester runtime. It owns the poll loop, the
// seen-item store and the publisher fan-out, and releases both on exit.
type Harvester struct {
	cfg          *config.Config
	fanout       *publishers.Fanout
	service      passRunner
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewHarvester builds a harvester runtime from config.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	list, err := hn.ParseStoryList(cfg.StoryList)
	if err != nil {
		return nil, fmt.Errorf("story list: %w", err)
	}

	transport := httpclient.NewRestyClient(cfg.RequestTimeout)
	client := hn.New(transport, hn.WithBaseURL(cfg.HNBaseURL), hn.WithUserAgent(cfg.HNUserAgent))
	log.InfoObj("hn client configured", "hn_client", map[string]any{
		"base_url":        client.BaseURL(),
		"story_list":      list,
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	scraper := harvest.NewScraper(transport, cfg.EnrichLinks, cfg.HNUserAgent, log)
	service := harvest.NewService(client, scraper, fanout, store, log, harvest.Options{
		List:         list,
		MaxStories:   cfg.MaxStories,
		RequestDelay: cfg.RequestDelay,
	})

	return &Harvester{
		cfg:          cfg,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	if h.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	defer h.close()

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"publishers_count": h.fanout.Size(),
		"poll_interval":    h.pollInterval.String(),
	})

	if err := h.runOnce(ctx); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single pass and releases resources afterwards.
func (h *Harvester) RunOnce(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()
	return h.runOnce(ctx)
}

// runOnce performs a single pass over the configured story list.
func (h *Harvester) runOnce(ctx context.Context) error {
	start := time.Now()
	res, err := h.service.Run(ctx)
	h.log.InfoObj("harvest pass finished", "harvest_meta", map[string]any{
		"listed":     res.Listed,
		"published":  res.Published,
		"skipped":    res.Skipped,
		"failed":     res.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and any publisher connections.
func (h *Harvester) close() {
	var errs []error
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	if err := h.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		h.log.ErrorObj("harvester shutdown failed", "error", err.Error())
	}
}
