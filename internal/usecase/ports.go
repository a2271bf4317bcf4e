package usecase

import (
	"context"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
)

// ContentRepository defines persistence for content records.
type ContentRepository interface {
	Insert(ctx context.Context, rec domain.ContentRecord) (string, error)
	Get(ctx context.Context, id string) (domain.ContentRecord, error)
	List(ctx context.Context, q domain.ListQuery) ([]domain.ContentRecord, error)
	Timeline(ctx context.Context) ([]domain.TimelineYear, error)
}

// BucketStore defines the object storage write surface. Put must write the
// key exactly once and return a publicly resolvable URL; idempotency is not
// guaranteed, so callers always generate unique keys.
type BucketStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// SignalPublisher broadcasts submission events to live listeners.
type SignalPublisher interface {
	Publish(ctx context.Context, event archive.Event) error
}

// SignalStreamer feeds submission events to one live listener until ctx is
// done. Category filters arrive over input.
type SignalStreamer interface {
	Realtime(ctx context.Context, input <-chan []string, output chan<- archive.Event)
}
