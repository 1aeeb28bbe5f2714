package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const fifoSuffix = ".fifo"

// loadAWSConfig resolves region and credentials, preferring a static key pair
// when the publisher config carries one.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// awsMessage is the body and string attributes shared by SQS and SNS sends.
type awsMessage struct {
	body  string
	attrs map[string]string
	// group and dedupe are set only for FIFO destinations.
	group  *string
	dedupe *string
}

func newAWSMessage(evt Event, destination string) (awsMessage, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return awsMessage{}, fmt.Errorf("marshal event: %w", err)
	}

	msg := awsMessage{body: string(payload), attrs: make(map[string]string)}
	for k, v := range evt.Attributes() {
		if v != "" {
			msg.attrs[k] = v
		}
	}
	if strings.HasSuffix(destination, fifoSuffix) {
		msg.group = aws.String(evt.StoryList)
		msg.dedupe = aws.String(strconv.FormatUint(uint64(evt.Story.ID), 10))
	}
	return msg, nil
}

// encodeAttributes converts string attributes into an SDK-specific value type.
func encodeAttributes[V any](attrs map[string]string, encode func(dataType, value *string) V) map[string]V {
	out := make(map[string]V, len(attrs))
	for k, v := range attrs {
		out[k] = encode(aws.String("String"), aws.String(v))
	}
	return out
}
