package harvest

import (
	"context"

	"github.com/samvad-hq/samvad-hn-harvester/internal/domain"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/publishers"
)

// StoryClient is the subset of *hn.Client the harvester needs.
type StoryClient interface {
	Stories(ctx context.Context, list hn.StoryList) ([]hn.ItemID, error)
	Item(ctx context.Context, id hn.ItemID) (hn.Item, error)
}

// StoryEnricher adds link-preview metadata to a story.
type StoryEnricher interface {
	Enrich(ctx context.Context, story domain.Story) domain.Story
}

// EventPublisher publishes stories downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which items were already published.
type Deduper interface {
	SeenItem(id hn.ItemID) (bool, error)
	MarkItem(id hn.ItemID) error
}
