// Package hn is a typed client for the Hacker News Firebase API.
package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public read-only API.
	DefaultBaseURL = "https://hacker-news.firebaseio.com"

	defaultTimeout = 15 * time.Second
	itemPathFormat = "/v0/item/%d.json"
)

// Client builds request URLs and decodes responses into typed values.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	transport httpclient.Client
	baseURL   string
	headers   map[string]string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at another API root (a mirror or a test server).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithUserAgent sets the User-Agent sent with every request. Empty values are ignored.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.headers["User-Agent"] = ua
		}
	}
}

// New builds a Client on top of transport. A nil transport gets a resty client
// with a 15 second timeout.
func New(transport httpclient.Client, opts ...Option) *Client {
	if transport == nil {
		transport = httpclient.NewRestyClient(defaultTimeout)
	}
	c := &Client{
		transport: transport,
		baseURL:   DefaultBaseURL,
		headers:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// TopStories returns the ranked ids of the current top stories.
func (c *Client) TopStories(ctx context.Context) ([]ItemID, error) {
	return c.Stories(ctx, ListTop)
}

// Stories returns the ids of the given list in rank order.
func (c *Client) Stories(ctx context.Context, list StoryList) ([]ItemID, error) {
	list, err := ParseStoryList(string(list))
	if err != nil {
		return nil, err
	}
	url, err := c.url(list.path())
	if err != nil {
		return nil, err
	}
	ids, err := GetJSON[[]ItemID](ctx, c, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s stories: %w", list, err)
	}
	return ids, nil
}

// Item fetches a single item by id.
func (c *Client) Item(ctx context.Context, id ItemID) (Item, error) {
	url, err := c.url(fmt.Sprintf(itemPathFormat, id))
	if err != nil {
		return Item{}, err
	}
	item, err := GetJSON[Item](ctx, c, url)
	if err != nil {
		return Item{}, fmt.Errorf("fetch item %d: %w", id, err)
	}
	return item, nil
}

func (c *Client) url(path string) (string, error) {
	base, err := httpclient.ValidateURL(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	return strings.TrimRight(base.String(), "/") + path, nil
}

// GetJSON fetches url through c's transport and decodes the body as T.
// The URL is validated first, so a malformed one never reaches the network.
func GetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var zero T
	if _, err := httpclient.ValidateURL(url); err != nil {
		return zero, err
	}

	resp, err := c.transport.Get(ctx, url, c.headers)
	if err != nil {
		return zero, err
	}

	out, err := Decode[T](resp.Body())
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.StatusCode = resp.StatusCode()
		}
		return zero, err
	}
	return out, nil
}

// Decode parses body as UTF-8 JSON and maps it onto T. A top-level null is
// rejected: the API answers unknown ids with null and 200.
func Decode[T any](body []byte) (T, error) {
	var out, zero T
	target := fmt.Sprintf("%T", out)

	if !utf8.Valid(body) {
		return zero, &DecodeError{Target: target, Err: errors.New("body is not valid UTF-8")}
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return zero, &DecodeError{Target: target, Err: errors.New("body is null")}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, &DecodeError{Target: target, Err: err}
	}
	return out, nil
}
