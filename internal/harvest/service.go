package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/internal/domain"
	"github.com/samvad-hq/samvad-hn-harvester/internal/logger"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/publishers"
)

// Options controls a harvest pass.
type Options struct {
	List         hn.StoryList
	MaxStories   int
	RequestDelay time.Duration
}

// Result summarizes one pass.
type Result struct {
	Listed    int
	Skipped   int
	Published int
	Failed    int
}

// Service walks a story list, fetches unseen items one at a time and publishes them.
type Service struct {
	client    StoryClient
	enricher  StoryEnricher
	publisher EventPublisher
	deduper   Deduper
	log       logger.Logger
	opts      Options
}

// NewService wires a harvester. enricher and deduper may be nil.
func NewService(client StoryClient, enricher StoryEnricher, publisher EventPublisher, deduper Deduper, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if opts.List == "" {
		opts.List = hn.ListTop
	}
	return &Service{
		client:    client,
		enricher:  enricher,
		publisher: publisher,
		deduper:   deduper,
		log:       log,
		opts:      opts,
	}
}

// Run executes one harvest pass. Per-item failures are logged and joined into
// the returned error; they never stop the pass.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result
	if s == nil || s.client == nil || s.publisher == nil {
		return res, fmt.Errorf("harvest service is not initialized")
	}

	ids, err := s.client.Stories(ctx, s.opts.List)
	if err != nil {
		return res, fmt.Errorf("list %s stories: %w", s.opts.List, err)
	}
	if s.opts.MaxStories > 0 && len(ids) > s.opts.MaxStories {
		ids = ids[:s.opts.MaxStories]
	}
	res.Listed = len(ids)

	var errs []error
	fetched := 0
	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if s.seen(id) {
			res.Skipped++
			continue
		}

		if fetched > 0 && !s.wait(ctx) {
			break
		}
		fetched++

		published, err := s.process(ctx, id, i+1)
		switch {
		case err != nil:
			res.Failed++
			errs = append(errs, err)
			s.log.ErrorObj("story harvest failed", "story_error", map[string]any{
				"item_id": id,
				"rank":    i + 1,
				"error":   err.Error(),
			})
		case published:
			res.Published++
		default:
			res.Skipped++
		}
	}

	s.log.InfoObj("harvest pass completed", "harvest_result", map[string]any{
		"story_list": s.opts.List,
		"listed":     res.Listed,
		"published":  res.Published,
		"skipped":    res.Skipped,
		"failed":     res.Failed,
	})
	return res, errors.Join(errs...)
}

// process fetches, converts, enriches and publishes one item. It reports false
// with a nil error for items that are intentionally not published.
func (s *Service) process(ctx context.Context, id hn.ItemID, rank int) (bool, error) {
	item, err := s.client.Item(ctx, id)
	if err != nil {
		return false, err
	}
	if item.Deleted || item.Dead {
		s.log.DebugObj("skipping removed item", "item_id", id)
		s.mark(id)
		return false, nil
	}

	story := domain.NewStory(item, rank)
	if s.enricher != nil {
		story = s.enricher.Enrich(ctx, story)
	}

	n, err := s.publisher.Publish(ctx, publishers.NewEvent(string(s.opts.List), story))
	if n == 0 {
		if err == nil {
			err = errors.New("no publisher accepted the event")
		}
		return false, fmt.Errorf("publish item %d: %w", id, err)
	}
	if err != nil {
		s.log.WarnObj("story partially published", "publish_error", map[string]any{
			"item_id":    id,
			"successful": n,
			"error":      err.Error(),
		})
	}

	s.mark(id)
	return true, nil
}

// seen treats a failing lookup as unseen so the item is retried rather than lost.
func (s *Service) seen(id hn.ItemID) bool {
	if s.deduper == nil {
		return false
	}
	ok, err := s.deduper.SeenItem(id)
	if err != nil {
		s.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
			"item_id": id,
			"error":   err.Error(),
		})
		return false
	}
	return ok
}

func (s *Service) mark(id hn.ItemID) {
	if s.deduper == nil {
		return
	}
	if err := s.deduper.MarkItem(id); err != nil {
		s.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
			"item_id": id,
			"error":   err.Error(),
		})
	}
}

// wait sleeps for the request delay and reports false if ctx ended first.
func (s *Service) wait(ctx context.Context) bool {
	if s.opts.RequestDelay <= 0 {
		return true
	}
	timer := time.NewTimer(s.opts.RequestDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
