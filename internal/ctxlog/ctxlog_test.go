package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "k", "v")

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestFromContextOrFallsBack(t *testing.T) {
	var buf bytes.Buffer
	fallback := New(&buf, slog.LevelDebug)

	FromContextOr(context.Background(), fallback).Debug("fallback")
	if !strings.Contains(buf.String(), "fallback") {
		t.Fatalf("expected fallback logger to be used")
	}
	if FromContext(context.Background()) == nil {
		t.Fatalf("expected discard logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
