package employment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis channels.
const (
	ChannelAlignmentChanged  = "EVENT_ALIGNMENT_CHANGED"
	ChannelReferenceExpanded = "EVENT_REFERENCE_EXPANDED"
)

// Event is the envelope published on every channel.
type Event struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	At     time.Time         `json:"at"`
	Fields map[string]string `json:"fields"`
}

// Publisher fans domain events out to other services. Publish failures are
// logged by the caller and never fail the request.
type Publisher interface {
	Publish(ctx context.Context, channel string, fields map[string]string) error
}

// RedisPublisher publishes JSON events with PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Publisher writing to rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, fields map[string]string) error {
	payload, err := json.Marshal(newEvent(channel, fields))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", channel, err)
	}
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// NopPublisher drops every event. Used when REDIS_URL is not set.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, map[string]string) error { return nil }

func newEvent(channel string, fields map[string]string) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   channel,
		At:     time.Now().UTC(),
		Fields: fields,
	}
}
