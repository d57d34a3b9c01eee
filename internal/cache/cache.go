package cache

import (
	"context"
	"time"

	"bookly/backend/internal/extraction"
)

// ExtractionCache keys a parsed sale payload by a hash of the raw input,
// so re-submitting the same chat text skips the extraction call.
type ExtractionCache interface {
	Get(ctx context.Context, key string) (*extraction.Payload, bool, error)
	Set(ctx context.Context, key string, value *extraction.Payload, ttl time.Duration) error
}

type NoopExtractionCache struct{}

func (NoopExtractionCache) Get(_ context.Context, _ string) (*extraction.Payload, bool, error) {
	return nil, false, nil
}

func (NoopExtractionCache) Set(_ context.Context, _ string, _ *extraction.Payload, _ time.Duration) error {
	return nil
}
