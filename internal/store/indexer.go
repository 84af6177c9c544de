package store

import (
	"context"
	"time"
)

// Record is what the adapter hands to a search indexer after a write.
type Record struct {
	Kind       string
	ID         string
	Name       string
	Tags       []string
	Text       string
	Media      []string
	Path       string
	ModifiedAt time.Time
}

// Indexer receives document changes. Failures are logged by the adapter and
// never fail the write that triggered them.
type Indexer interface {
	Index(ctx context.Context, rec Record) error
	Remove(ctx context.Context, kind, id string) error
}
