package publishers

import (
	"strconv"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	StoryList   string       `json:"story_list"`
	Story       domain.Story `json:"story"`
	CollectedAt time.Time    `json:"collected_at"`
}

// NewEvent constructs an Event for a story harvested from the given list.
func NewEvent(list string, story domain.Story) Event {
	return Event{
		StoryList:   list,
		Story:       story,
		CollectedAt: time.Now().UTC(),
	}
}

// Attributes are the routing attributes attached to queue and topic messages.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"item_id":    strconv.FormatUint(uint64(e.Story.ID), 10),
		"item_type":  string(e.Story.Kind),
		"story_list": e.StoryList,
	}
}
