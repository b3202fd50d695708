package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNewRequestID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewRequestID()
		if len(id) != 8 {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct ids out of 100", len(seen))
	}
}

func TestRequestIDContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context returned %q", got)
	}
	ctx := WithRequestID(context.Background(), "abc12345")
	if got := RequestIDFromContext(ctx); got != "abc12345" {
		t.Errorf("got %q", got)
	}
}

func TestInitWriter(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "")

	var sb strings.Builder
	InitWriter(&sb)
	l := ForRequest(WithRequestID(context.Background(), "req1"))
	l.Info().Msg("hello")

	out := sb.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "requestId=req1") {
		t.Errorf("unexpected log output: %q", out)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %s, want debug", zerolog.GlobalLevel())
	}
}
