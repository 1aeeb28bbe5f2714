package hn

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ItemID identifies an item. The API is authoritative; the client treats it as an opaque key.
type ItemID uint64

// Kind is the closed set of item types served by the API.
type Kind string

const (
	KindJob     Kind = "job"
	KindStory   Kind = "story"
	KindComment Kind = "comment"
	KindPoll    Kind = "poll"
	KindPollOpt Kind = "pollopt"
)

var kinds = map[Kind]struct{}{
	KindJob:     {},
	KindStory:   {},
	KindComment: {},
	KindPoll:    {},
	KindPollOpt: {},
}

// ParseKind returns the Kind named by s, or an error for anything outside the enumeration.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("unknown item type %q", s)
	}
	return k, nil
}

func (k Kind) String() string { return string(k) }

// UnmarshalJSON accepts only the known type strings.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("item type must be a string: %w", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Item is a story, comment, job, poll or poll option.
// Only ID and Kind are required; everything else defaults to its zero value.
type Item struct {
	ID          ItemID   `json:"id"`
	Kind        Kind     `json:"type"`
	By          string   `json:"by,omitempty"`
	Title       string   `json:"title,omitempty"`
	Kids        []ItemID `json:"kids,omitempty"`
	Score       int      `json:"score,omitempty"`
	Time        int64    `json:"time,omitempty"`
	URL         string   `json:"url,omitempty"`
	Text        string   `json:"text,omitempty"`
	Parent      ItemID   `json:"parent,omitempty"`
	Descendants int      `json:"descendants,omitempty"`
	Deleted     bool     `json:"deleted,omitempty"`
	Dead        bool     `json:"dead,omitempty"`
}

var (
	errMissingID   = errors.New("missing required field \"id\"")
	errMissingType = errors.New("missing required field \"type\"")
)

// UnmarshalJSON enforces the required fields.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var wire struct {
		plain
		ID   *ItemID `json:"id"`
		Kind *Kind   `json:"type"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ID == nil {
		return errMissingID
	}
	if wire.Kind == nil {
		return errMissingType
	}

	*it = Item(wire.plain)
	it.ID = *wire.ID
	it.Kind = *wire.Kind
	return nil
}

// Created returns the creation time, or the zero time when the API omitted it.
func (it Item) Created() time.Time {
	if it.Time <= 0 {
		return time.Time{}
	}
	return time.Unix(it.Time, 0).UTC()
}

// DiscussionURL is the item's page on the website.
func (it Item) DiscussionURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
}

// StoryList names one of the ranked id lists the API publishes.
type StoryList string

const (
	ListTop  StoryList = "top"
	ListNew  StoryList = "new"
	ListBest StoryList = "best"
	ListAsk  StoryList = "ask"
	ListShow StoryList = "show"
	ListJob  StoryList = "job"
)

// StoryLists holds every supported list, in the order the website shows them.
var StoryLists = []StoryList{ListTop, ListNew, ListBest, ListAsk, ListShow, ListJob}

// ParseStoryList resolves a list name, case-insensitively.
func ParseStoryList(s string) (StoryList, error) {
	name := StoryList(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range StoryLists {
		if l == name {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown story list %q", s)
}

func (l StoryList) path() string {
	return "/v0/" + string(l) + "stories.json"
}
