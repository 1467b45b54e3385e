package cache

import (
	"context"
	"time"
)

// RenderedCache holds the fully rendered JPEG for a session, produced either
// server-side by the render endpoint or client-side and posted to
// upload-rendered. Entries expire; the original image and adjustment state
// remain the durable source of truth.
type RenderedCache interface {
	// Set stores rendered bytes for a session, replacing any previous entry.
	Set(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	// Get returns (nil, nil) when no rendered image is cached for the session.
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}
