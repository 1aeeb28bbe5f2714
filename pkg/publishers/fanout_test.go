package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		nil,
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers must be dropped, size %d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutCloseClosesResources(t *testing.T) {
	closer := &closingPublisher{stubPublisher{id: "gcp", typ: TypePubSub}}
	fanout := NewFanout([]Publisher{&stubPublisher{id: "log", typ: TypeLog}, closer})

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("expected closer to be closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "stdout", Type: TypeLog},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(pubs))
	}
	if err := pubs[1].Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("log publisher: %v", err)
	}
}

func TestBuildAllFailsOnUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "kafka", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
