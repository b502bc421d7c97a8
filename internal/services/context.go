package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	feedURLKey   contextKey = "feed_url"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFeedURL annotates context with the feed URL being operated on.
func WithFeedURL(ctx context.Context, url string) context.Context {
	if url == "" {
		return ctx
	}
	return context.WithValue(ctx, feedURLKey, url)
}

// FeedURLFromContext returns the feed URL if present.
func FeedURLFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(feedURLKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
