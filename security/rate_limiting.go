package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a Redis-backed fixed-window counter. It fails open: when
// Redis is unavailable requests pass through rather than locking everyone
// out.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the keyed actor may proceed within the current
// window.
func (r *RateLimiter) Allow(ctx context.Context, key string) bool {
	if r.redis == nil || r.limit <= 0 {
		return true
	}

	counterKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := r.redis.Incr(ctx, counterKey).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, counterKey, r.window)
	}
	return count <= int64(r.limit)
}
