package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dsc_team/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// EventPublisher delivers member change events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event model.MemberEvent) error
}

type nopPublisher struct{}

// NewNopPublisher is used when no event stream is configured.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(ctx context.Context, event model.MemberEvent) error {
	return nil
}

// StreamPublisher appends events to a Redis stream with XADD.
type StreamPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher trims the stream to roughly maxLen entries; zero keeps all.
func NewStreamPublisher(rdb *redis.Client, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Publish(ctx context.Context, event model.MemberEvent) error {
	fields, err := json.Marshal(event.Fields)
	if err != nil {
		return fmt.Errorf("encoding event fields: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":   string(event.Type),
			"id":     event.ID,
			"fields": string(fields),
			"at":     event.At.UTC().Format(time.RFC3339Nano),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to XADD to stream %s: %w", p.stream, err)
	}
	return nil
}
