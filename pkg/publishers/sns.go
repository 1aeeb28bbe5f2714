package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the part of *sns.Client the publisher calls.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher fans stories out through a topic, using the same FIFO rules as
// the SQS publisher.
type snsPublisher struct {
	id       string
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, err
	}
	return &snsPublisher{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *snsPublisher) ID() string   { return s.id }
func (s *snsPublisher) Type() string { return TypeSNS }

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newAWSMessage(evt, s.topicARN)
	if err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(msg.body),
		MessageAttributes: encodeAttributes(msg.attrs, func(dataType, value *string) snstypes.MessageAttributeValue {
			return snstypes.MessageAttributeValue{DataType: dataType, StringValue: value}
		}),
		MessageGroupId:         msg.group,
		MessageDeduplicationId: msg.dedupe,
	})
	if err != nil {
		s.log.ErrorObj("sns publish failed", "publisher_sns_error", map[string]any{
			"publisher_id": s.id,
			"item_id":      evt.Story.ID,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}

	s.log.DebugObj("sns publish delivered", "publisher_sns_delivery", map[string]any{
		"publisher_id": s.id,
		"item_id":      evt.Story.ID,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
