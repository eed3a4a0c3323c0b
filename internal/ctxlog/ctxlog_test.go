package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != Discard() {
		t.Fatalf("expected discard logger without a stored logger")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello k=v") {
		t.Fatalf("expected record in buffer, got %q", buf.String())
	}

	if WithLogger(ctx, nil) != ctx {
		t.Fatalf("nil logger must leave the context unchanged")
	}
}
