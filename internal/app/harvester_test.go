package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/internal/config"
	"github.com/samvad-hq/samvad-hn-harvester/internal/harvest"
	"github.com/samvad-hq/samvad-hn-harvester/internal/logger"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/publishers"
)

type fakePass struct {
	mu    sync.Mutex
	calls int
	err   error
	ran   chan struct{}
}

func (f *fakePass) Run(context.Context) (harvest.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	select {
	case f.ran <- struct{}{}:
	default:
	}
	return harvest.Result{Listed: 1}, f.err
}

type fakeStore struct {
	closed bool
}

func (f *fakeStore) Close() error                     { f.closed = true; return nil }
func (f *fakeStore) SeenItem(hn.ItemID) (bool, error) { return false, nil }
func (f *fakeStore) MarkItem(hn.ItemID) error         { return nil }

func TestRunExecutesInitialPassAndClosesStore(t *testing.T) {
	pass := &fakePass{err: errors.New("hn down"), ran: make(chan struct{}, 1)}
	store := &fakeStore{}
	h := &Harvester{
		service:      pass,
		pollInterval: time.Hour,
		log:          &logger.NopLogger{},
		store:        store,
		fanout:       publishers.NewFanout(nil),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case <-pass.ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("initial pass did not run")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not exit after cancel")
	}
	if !store.closed {
		t.Fatalf("store should be closed on exit")
	}
}

func TestRunRejectsUninitialized(t *testing.T) {
	var h *Harvester
	if err := h.Run(context.Background()); err == nil {
		t.Fatalf("expected error for nil harvester")
	}
}

func TestNewHarvesterRequiresPublishers(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", `publishers: []`)
	if _, err := NewHarvester(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when no publishers are enabled")
	}
}

func TestHarvesterEndToEnd(t *testing.T) {
	hnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/newstories.json":
			_, _ = io.WriteString(w, `[101, 102]`)
		case "/v0/item/101.json":
			_, _ = io.WriteString(w, `{"id":101,"type":"story","by":"pg","title":"First","score":10,"time":1700000000}`)
		case "/v0/item/102.json":
			_, _ = io.WriteString(w, `{"id":102,"type":"story","by":"dang","title":"Second","text":"hello<p>world"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer hnSrv.Close()

	var (
		mu       sync.Mutex
		received []publishers.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	pubs := fmt.Sprintf(`
publishers:
  - id: sink
    type: http
    http:
      url: %s
`, sink.URL)
	cfg := testConfig(t, hnSrv.URL, pubs)
	cfg.StoryList = "new"

	h, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	defer h.close()

	if err := h.runOnce(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := h.runOnce(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected each story published once, got %d events", len(received))
	}
	if received[0].Story.ID != 101 || received[0].Story.Rank != 1 || received[0].StoryList != "new" {
		t.Fatalf("unexpected first event %+v", received[0])
	}
	if received[1].Story.Text != "hello\n\nworld" {
		t.Fatalf("expected plain text, got %q", received[1].Story.Text)
	}
}

func testConfig(t *testing.T, baseURL, publishersYAML string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "publishers.yaml")
	if err := os.WriteFile(pubPath, []byte(publishersYAML), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return &config.Config{
		AppName:                "test",
		PublishersFile:         pubPath,
		HNBaseURL:              baseURL,
		StoryList:              "top",
		RequestTimeout:         5 * time.Second,
		MaxStories:             10,
		PollInterval:           time.Minute,
		EnrichLinks:            false,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "seen.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}
