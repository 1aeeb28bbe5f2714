package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
)

const maxErrorSnippetBytes = 512

// httpPublisher posts each event as JSON to a webhook. Event attributes travel
// as X-HN-* headers so receivers can route without parsing the body.
type httpPublisher struct {
	id      string
	method  string
	target  string
	headers map[string]string
	client  *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	hook := *cfg.HTTP
	hook.normalize()
	if _, err := httpclient.ValidateURL(hook.URL); err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  hook.Method,
		target:  hook.URL,
		headers: hook.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(hook.TimeoutSeconds) * time.Second),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)
	for k, v := range evt.Attributes() {
		if v != "" {
			req.SetHeader(attributeHeader(k), v)
		}
	}

	resp, err := req.Execute(h.method, h.target)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

// attributeHeader maps "story_list" to "X-Hn-Story-List".
func attributeHeader(attr string) string {
	return http.CanonicalHeaderKey("X-HN-" + strings.ReplaceAll(attr, "_", "-"))
}

func snippet(body []byte) string {
	if len(body) > maxErrorSnippetBytes {
		body = body[:maxErrorSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
