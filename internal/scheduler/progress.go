package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/alignment-service/internal/employment"
)

// ProgressKey is the Redis key holding the latest recalculation progress.
const ProgressKey = "alignment:recalculation:progress"

const progressTTL = time.Hour

// ProgressStore records the progress of the current or last recalculation.
type ProgressStore interface {
	Save(ctx context.Context, p employment.Progress) error
	// Load returns false when nothing was recorded.
	Load(ctx context.Context) (employment.Progress, bool, error)
}

// RedisProgress keeps progress under ProgressKey for an hour.
type RedisProgress struct {
	rdb *redis.Client
}

// NewRedisProgress returns a ProgressStore backed by rdb.
func NewRedisProgress(rdb *redis.Client) *RedisProgress {
	return &RedisProgress{rdb: rdb}
}

func (r *RedisProgress) Save(ctx context.Context, p employment.Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return r.rdb.Set(ctx, ProgressKey, raw, progressTTL).Err()
}

func (r *RedisProgress) Load(ctx context.Context) (employment.Progress, bool, error) {
	raw, err := r.rdb.Get(ctx, ProgressKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return employment.Progress{}, false, nil
	}
	if err != nil {
		return employment.Progress{}, false, err
	}
	var p employment.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return employment.Progress{}, false, fmt.Errorf("unmarshal progress: %w", err)
	}
	return p, true, nil
}

// NopProgress discards progress. Used when REDIS_URL is not set.
type NopProgress struct{}

func (NopProgress) Save(context.Context, employment.Progress) error { return nil }

func (NopProgress) Load(context.Context) (employment.Progress, bool, error) {
	return employment.Progress{}, false, nil
}
