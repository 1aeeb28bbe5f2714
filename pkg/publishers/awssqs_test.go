package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      ensureLogger(nil),
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["item_id"]
	if !ok || aws.ToString(attr.StringValue) != "8863" {
		t.Fatalf("item_id attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"story_list":"top"`) {
		t.Fatalf("MessageBody missing story_list: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      ensureLogger(nil),
	}

	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSQSPublisherFIFOQueue(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "fifo",
		queueURL: "https://sqs.eu-west-1.amazonaws.com/123/stories.fifo",
		client:   client,
		log:      ensureLogger(nil),
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "top" {
		t.Fatalf("MessageGroupId = %q want top", got)
	}
	if got := aws.ToString(client.input.MessageDeduplicationId); got != "8863" {
		t.Fatalf("MessageDeduplicationId = %q want 8863", got)
	}
}

func TestSQSPublisherStandardQueueHasNoGroup(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "std", queueURL: "https://example.com/queue", client: client, log: ensureLogger(nil)}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input.MessageGroupId != nil || client.input.MessageDeduplicationId != nil {
		t.Fatalf("standard queues must not carry FIFO fields")
	}
}
