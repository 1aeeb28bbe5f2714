package publishers

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "stories"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:   "gcp",
		Type: TypePubSub,
		PubSub: &PubSubPublisherConfig{
			ProjectID: "test-project",
			Topic:     "stories",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}

	if err := pub.Publish(ctx, testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := NewFanout([]Publisher{pub}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["item_id"] != "8863" {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
	if !strings.Contains(string(msgs[0].Data), `"title":"Dropbox"`) {
		t.Fatalf("unexpected payload %s", msgs[0].Data)
	}
}
