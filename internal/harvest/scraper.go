package harvest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-hn-harvester/internal/domain"
	"github.com/samvad-hq/samvad-hn-harvester/internal/logger"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // read at most 1 MiB of a linked page
	maxSnippetBytes  = 1024
)

// Scraper converts item HTML to plain text and, when link fetching is on,
// fills in OG metadata from the story's target page.
type Scraper struct {
	client     httpclient.Client
	fetchLinks bool
	headers    map[string]string
	log        logger.Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client, fetchLinks bool, userAgent string, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(10 * time.Second)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	headers := map[string]string{"Accept": "text/html,application/xhtml+xml"}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		headers["User-Agent"] = ua
	}
	return &Scraper{client: client, fetchLinks: fetchLinks, headers: headers, log: log}
}

// Enrich never fails: on any scrape error the story comes back with only its
// text converted.
func (s *Scraper) Enrich(ctx context.Context, story domain.Story) domain.Story {
	if story.Text != "" {
		story.Text = plainText(story.Text)
	}
	if !s.fetchLinks || story.URL == "" {
		return story
	}

	enriched, err := s.fetchAndParse(ctx, story)
	if err != nil {
		s.log.WarnObj("link preview scrape failed", "preview_error", map[string]any{
			"item_id": story.ID,
			"url":     story.URL,
			"error":   err.Error(),
		})
		return story
	}
	return enriched
}

func (s *Scraper) fetchAndParse(ctx context.Context, story domain.Story) (domain.Story, error) {
	resp, err := s.get(ctx, story.URL)
	if err != nil {
		return story, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > maxSnippetBytes {
			snippet = snippet[:maxSnippetBytes]
		}
		return story, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return story, err
	}

	updated := story
	if updated.Title == "" && meta.Title != "" {
		updated.Title = meta.Title
	}
	if meta.Description != "" {
		updated.Description = meta.Description
	}
	if meta.ImageURL != "" {
		updated.ImageURL = resolveURL(meta.ImageURL, story.URL)
	}
	return updated, nil
}

// get stops reading the page at maxHTMLBodyBytes when the transport supports
// it. Other transports return the whole body and fetchAndParse truncates it.
func (s *Scraper) get(ctx context.Context, url string) (httpclient.Response, error) {
	if lc, ok := s.client.(httpclient.LimitedClient); ok {
		return lc.GetLimited(ctx, url, s.headers, maxHTMLBodyBytes)
	}
	return s.client.Get(ctx, url, s.headers)
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

// plainText flattens item HTML (paragraph tags, links, entities) into text.
// Paragraphs become blank-line separated.
func plainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + html + "</body>"))
	if err != nil {
		return html
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			parts = append(parts, t)
		}
		current.Reset()
	}

	doc.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "p" {
			flush()
			current.WriteString(sel.Text())
			flush()
			return
		}
		current.WriteString(sel.Text())
	})
	flush()

	return strings.Join(parts, "\n\n")
}

func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
