package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/porvoy/archive"
)

const submissionChannel = "archive:submissions"

// SignalService fans submission events out to live listeners through redis
// pub/sub. Publishing is fire-and-forget from the pipeline's point of view.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event archive.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, submissionChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime streams submission events to output until ctx is done. Sending a
// category list on input narrows the stream to those canonical categories; an
// empty list means everything.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- archive.Event) {
	sub := s.rdb.Subscribe(ctx, submissionChannel)
	defer sub.Close()

	messages := sub.Channel()
	var categories []string

	for {
		select {
		case <-ctx.Done():
			return
		case cats, ok := <-input:
			if !ok {
				return
			}
			categories = cats
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event archive.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(ctx, "malformed submission event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if !matches(categories, event.Category) {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func matches(categories []string, category string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
