package services_test

import (
	"context"
	"testing"

	"xtor/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithFeedURL(ctx, "https://sample.xtor.io/")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if url, ok := services.FeedURLFromContext(ctx); !ok || url != "https://sample.xtor.io/" {
		t.Fatalf("unexpected feed url: %v %v", url, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithFeedURL(ctx, "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.FeedURLFromContext(ctx); ok {
		t.Fatal("expected no feed url")
	}
}
