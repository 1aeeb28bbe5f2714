package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    enabled: true
    http:
      url: " https://example.com/2 "
      method: put
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123456789012:stories
      region: eu-west-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "topic" {
		t.Fatalf("expected http2 and topic enabled, got %#v", enabled)
	}

	http2, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("expected http2 in registry")
	}
	if http2.Type != TypeHTTP || http2.HTTP.URL != "https://example.com/2" || http2.HTTP.Method != "PUT" {
		t.Fatalf("unexpected sanitized config %#v", http2.HTTP)
	}
	if http2.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", http2.HTTP.TimeoutSeconds)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if all := reg.All(); len(all) != 1 || all[0].PubSub.Topic != "t" {
		t.Fatalf("unexpected registry %#v", all)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: same
    type: log
  - id: same
    type: log
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http block":   {ID: "h1", Type: TypeHTTP},
		"missing sqs region":   {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://sqs"}},
		"missing sns arn":      {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}},
		"missing pubsub topic": {ID: "g1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		"half credentials": {ID: "q2", Type: TypeSQS, SQS: &SQSPublisherConfig{
			QueueURL: "https://sqs", Region: "eu-west-1",
			Credentials: &AWSCredentials{AccessKeyID: "AKID"},
		}},
		"unknown type": {ID: "k1", Type: "kafka"},
		"missing id":   {Type: TypeLog},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if err := validatePublisherConfig(PublisherConfig{ID: "stdout", Type: TypeLog}); err != nil {
		t.Fatalf("log publisher should validate: %v", err)
	}
}
