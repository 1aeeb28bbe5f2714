package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("harvest completed", "harvest_result", map[string]any{"published": 3})
	log.DebugObj("skip", "item_id", 7)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "harvest completed" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	field, ok := entries[0].ContextMap()["harvest_result"].(map[string]any)
	if !ok || field["published"] != 3 {
		t.Fatalf("unexpected field %#v", entries[0].ContextMap())
	}
}

func TestNewWithNilReturnsNop(t *testing.T) {
	if _, ok := New(nil).(*NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil zap logger")
	}
}

func TestPackageHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("x", "k", 1)
	ErrorObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
}
