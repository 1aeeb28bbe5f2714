package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubPublisher implements the Publisher interface for Google Cloud Pub/Sub.
type pubsubPublisher struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubPublisher{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(log),
	}, nil
}

func (p *pubsubPublisher) ID() string   { return p.id }
func (p *pubsubPublisher) Type() string { return TypePubSub }

// Publish blocks until the server acknowledges the message.
func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: evt.Attributes(),
	})
	msgID, err := res.Get(ctx)
	if err != nil {
		p.log.ErrorObj("pubsub publisher send failed", "publisher_pubsub_error", map[string]any{
			"publisher_id": p.id,
			"item_id":      evt.Story.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub publisher delivered event", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": p.id,
		"item_id":      evt.Story.ID,
		"message_id":   msgID,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
