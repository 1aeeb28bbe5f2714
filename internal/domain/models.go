package domain

import (
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
)

// Story is an item as published downstream: the API record plus its rank and
// whatever the link preview added.
type Story struct {
	ID            hn.ItemID `json:"id"`
	Rank          int       `json:"rank"`
	Kind          hn.Kind   `json:"type"`
	Title         string    `json:"title"`
	Author        string    `json:"by,omitempty"`
	URL           string    `json:"url,omitempty"`
	DiscussionURL string    `json:"discussion_url"`
	Score         int       `json:"score"`
	Comments      int       `json:"comments"`
	Text          string    `json:"text,omitempty"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	PostedAt      time.Time `json:"posted_at"`
}

// NewStory converts an item at the given 1-based rank.
func NewStory(item hn.Item, rank int) Story {
	return Story{
		ID:            item.ID,
		Rank:          rank,
		Kind:          item.Kind,
		Title:         item.Title,
		Author:        item.By,
		URL:           item.URL,
		DiscussionURL: item.DiscussionURL(),
		Score:         item.Score,
		Comments:      item.Descendants,
		Text:          item.Text,
		PostedAt:      item.Created(),
	}
}
