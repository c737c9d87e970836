package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllow(t *testing.T) {
	b := NewTokenBucket(time.Hour, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, b.Allow(), "request %d", i+1)
	}
	assert.False(t, b.Allow(), "burst used up")
}

func TestTokenBucketRefills(t *testing.T) {
	b := NewTokenBucket(10*time.Millisecond, 1)
	require.True(t, b.Allow())

	start := time.Now()
	require.NoError(t, b.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestTokenBucketWaitHonoursContext(t *testing.T) {
	b := NewTokenBucket(time.Hour, 1)
	assert.True(t, b.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Error(t, b.Wait(ctx))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewTokenBucketClampsBurst(t *testing.T) {
	b := NewTokenBucket(time.Hour, 0)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())
}

func TestPerMinute(t *testing.T) {
	assert.IsType(t, Unlimited{}, PerMinute(0))
	assert.IsType(t, Unlimited{}, PerMinute(-5))

	l, ok := PerMinute(60).(*TokenBucket)
	require.True(t, ok)
	assert.Equal(t, time.Second, l.Interval())

	l, ok = PerMinute(120).(*TokenBucket)
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, l.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Unlimited{}.Wait(ctx))
	assert.True(t, Unlimited{}.Allow())
}
