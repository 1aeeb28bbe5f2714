package publishers

import (
	"testing"

	"github.com/samvad-hq/samvad-hn-harvester/internal/domain"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
)

func testEvent() Event {
	return NewEvent("top", domain.Story{ID: 8863, Rank: 1, Kind: hn.KindStory, Title: "Dropbox"})
}

func TestEventAttributes(t *testing.T) {
	attrs := testEvent().Attributes()
	if attrs["item_id"] != "8863" || attrs["item_type"] != "story" || attrs["story_list"] != "top" {
		t.Fatalf("unexpected attributes %#v", attrs)
	}
}

func TestNewEventStampsUTC(t *testing.T) {
	evt := testEvent()
	if evt.CollectedAt.IsZero() || evt.CollectedAt.Location().String() != "UTC" {
		t.Fatalf("CollectedAt = %v", evt.CollectedAt)
	}
}
