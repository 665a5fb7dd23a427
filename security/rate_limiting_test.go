package security

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Minute)
	ctx := context.Background()

	mock.ExpectIncr("ratelimit:respond:u1").SetVal(1)
	mock.ExpectExpire("ratelimit:respond:u1", time.Minute).SetVal(true)
	assert.True(t, limiter.Allow(ctx, "respond:u1"))

	mock.ExpectIncr("ratelimit:respond:u1").SetVal(2)
	assert.True(t, limiter.Allow(ctx, "respond:u1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Minute)

	mock.ExpectIncr("ratelimit:respond:u1").SetVal(3)
	assert.False(t, limiter.Allow(context.Background(), "respond:u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1, time.Minute)

	mock.ExpectIncr("ratelimit:respond:u1").SetErr(assert.AnError)
	assert.True(t, limiter.Allow(context.Background(), "respond:u1"))

	// No Redis configured at all.
	assert.True(t, NewRateLimiter(nil, 1, time.Minute).Allow(context.Background(), "x"))
}
