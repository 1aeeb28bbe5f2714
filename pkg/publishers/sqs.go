package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient is the part of *sqs.Client the publisher calls.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends one message per story. FIFO queues (".fifo" suffix) are
// grouped by story list and deduplicated by item id.
type sqsPublisher struct {
	id       string
	queueURL string
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newAWSMessage(evt, s.queueURL)
	if err != nil {
		return err
	}

	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(msg.body),
		MessageAttributes: encodeAttributes(msg.attrs, func(dataType, value *string) sqstypes.MessageAttributeValue {
			return sqstypes.MessageAttributeValue{DataType: dataType, StringValue: value}
		}),
		MessageGroupId:         msg.group,
		MessageDeduplicationId: msg.dedupe,
	})
	if err != nil {
		s.log.ErrorObj("sqs publish failed", "publisher_sqs_error", map[string]any{
			"publisher_id": s.id,
			"item_id":      evt.Story.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}

	s.log.DebugObj("sqs publish delivered", "publisher_sqs_delivery", map[string]any{
		"publisher_id": s.id,
		"item_id":      evt.Story.ID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
