package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-io/backend/internal/storage"
)

// RedisStore is a CounterStore backed by Redis, for deployments where the
// quota must be shared across instances. Each fixed window maps to its own
// key (INCR is atomic, EXPIRE bounds stale windows), so the check-and-
// increment needs no cross-instance locking.
type RedisStore struct {
	redis *storage.RedisClient
}

func NewRedisStore(redis *storage.RedisClient) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	windowSecs := int64(window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}

	now := time.Now()
	bucket := now.Unix() / windowSecs
	redisKey := fmt.Sprintf("%s:%d", key, bucket)

	pipe := s.redis.TxPipeline()
	counter := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	reset := time.Unix((bucket+1)*windowSecs, 0)
	resetIn := reset.Sub(now)
	if resetIn < 0 {
		resetIn = 0
	}

	return counter.Val(), resetIn, nil
}
