package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisRateLimiterStore is a fixed window rate limiter store backed by redis,
// allowing limit requests per window and identifier.
type RedisRateLimiterStore struct {
	client  redisCounter
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

func NewRedisRateLimiterStore(client redisCounter, limit int, window time.Duration) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client:  client,
		limit:   int64(limit),
		window:  window,
		timeout: 200 * time.Millisecond,
		now:     time.Now,
	}
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("ratelimit:%s:%d", identifier, bucket)
}

// Allow fails open, requests are let through while redis is unreachable.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.key(identifier)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return true, nil
	}
	if count == 1 {
		s.client.Expire(ctx, key, 2*s.window)
	}
	return count <= s.limit, nil
}
