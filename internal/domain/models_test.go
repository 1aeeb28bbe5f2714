package domain

import (
	"testing"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
)

func TestNewStoryCopiesItemFields(t *testing.T) {
	item := hn.Item{
		ID:          8863,
		Kind:        hn.KindStory,
		By:          "dhouston",
		Title:       "My YC app",
		URL:         "http://www.getdropbox.com",
		Score:       111,
		Descendants: 71,
		Time:        1175714200,
	}

	story := NewStory(item, 4)
	if story.ID != 8863 || story.Rank != 4 || story.Kind != hn.KindStory {
		t.Fatalf("unexpected identity fields %+v", story)
	}
	if story.Author != "dhouston" || story.Comments != 71 || story.Score != 111 {
		t.Fatalf("unexpected counters %+v", story)
	}
	if story.DiscussionURL != "https://news.ycombinator.com/item?id=8863" {
		t.Fatalf("DiscussionURL = %s", story.DiscussionURL)
	}
	if story.PostedAt.Unix() != 1175714200 {
		t.Fatalf("PostedAt = %v", story.PostedAt)
	}
}
