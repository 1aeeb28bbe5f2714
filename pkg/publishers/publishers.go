package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sink types accepted in the publishers file.
const (
	TypeLog    = "log"
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"

	httpDefaultMethod         = http.MethodPost
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one entry of the publishers file. Exactly the block
// matching Type is read; the others are ignored.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

// EnabledValue reports the enabled flag; entries without one are on.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// sinkBlock is implemented by every type-specific config block.
type sinkBlock interface {
	normalize()
	validate() error
}

// block returns the config block for cfg.Type. ok is false for unknown types;
// a nil block with ok set means the type needs a block that is missing.
func (cfg PublisherConfig) block() (b sinkBlock, ok bool) {
	switch cfg.Type {
	case TypeLog:
		return nil, true
	case TypeSQS:
		if cfg.SQS == nil {
			return nil, true
		}
		return cfg.SQS, true
	case TypeSNS:
		if cfg.SNS == nil {
			return nil, true
		}
		return cfg.SNS, true
	case TypePubSub:
		if cfg.PubSub == nil {
			return nil, true
		}
		return cfg.PubSub, true
	case TypeHTTP:
		if cfg.HTTP == nil {
			return nil, true
		}
		return cfg.HTTP, true
	}
	return nil, false
}

// AWSCredentials optionally pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig points at an SQS queue.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

func (c *SQSPublisherConfig) normalize() {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	c.Credentials = trimCredentials(c.Credentials)
}

func (c *SQSPublisherConfig) validate() error {
	if c.QueueURL == "" {
		return errors.New("sqs.uri is required")
	}
	if c.Region == "" {
		return errors.New("sqs.region is required")
	}
	return checkCredentials(c.Credentials)
}

// SNSPublisherConfig points at an SNS topic.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

func (c *SNSPublisherConfig) normalize() {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	c.Credentials = trimCredentials(c.Credentials)
}

func (c *SNSPublisherConfig) validate() error {
	if c.TopicARN == "" {
		return errors.New("sns.topic_arn is required")
	}
	if c.Region == "" {
		return errors.New("sns.region is required")
	}
	return checkCredentials(c.Credentials)
}

// PubSubPublisherConfig points at a Google Cloud Pub/Sub topic.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

func (c *PubSubPublisherConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
}

func (c *PubSubPublisherConfig) validate() error {
	if c.ProjectID == "" {
		return errors.New("pubsub.project_id is required")
	}
	if c.Topic == "" {
		return errors.New("pubsub.topic is required")
	}
	return nil
}

// HTTPPublisherConfig is a webhook receiving each event as a JSON body.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	if c.Method = strings.ToUpper(strings.TrimSpace(c.Method)); c.Method == "" {
		c.Method = httpDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
}

func (c *HTTPPublisherConfig) validate() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	return nil
}

// trimCredentials drops a credentials block with neither key set.
func trimCredentials(c *AWSCredentials) *AWSCredentials {
	if c == nil {
		return nil
	}
	out := &AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
	}
	if out.AccessKeyID == "" && out.SecretAccessKey == "" {
		return nil
	}
	return out
}

func checkCredentials(c *AWSCredentials) error {
	if c != nil && (c.AccessKeyID == "" || c.SecretAccessKey == "") {
		return errors.New("credentials need both access_key_id and secret_access_key")
	}
	return nil
}

// sanitizePublisherConfig returns a copy of cfg with trimmed fields and
// defaults applied. Blocks are copied so the caller's values stay untouched.
func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if cfg.SQS != nil {
		c := *cfg.SQS
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		cfg.HTTP = &c
	}
	if b, _ := cfg.block(); b != nil {
		b.normalize()
	}
	return cfg
}

// validatePublisherConfig checks the id, the type and the type's block.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}

	b, known := cfg.block()
	switch {
	case !known:
		return fmt.Errorf("unknown type %q for publisher %q", cfg.Type, cfg.ID)
	case b == nil && cfg.Type != TypeLog:
		return fmt.Errorf("%s config required for publisher %q", cfg.Type, cfg.ID)
	case b == nil:
		return nil
	}
	if err := b.validate(); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}
