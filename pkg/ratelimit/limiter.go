package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outgoing API calls.
type Limiter interface {
	// Allow reports whether a request may proceed now, consuming a token if so
	Allow() bool
	// Wait blocks until a token is free or ctx is done
	Wait(ctx context.Context) error
}

// TokenBucket is a Limiter backed by x/time/rate.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows one request every interval with bursts of up to burst.
func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(rate.Every(interval), burst)}
}

// PerMinute returns a limiter spacing n requests evenly over a minute.
// n <= 0 disables limiting.
func PerMinute(n int) Limiter {
	if n <= 0 {
		return Unlimited{}
	}
	return NewTokenBucket(time.Minute/time.Duration(n), 1)
}

func (b *TokenBucket) Allow() bool { return b.limiter.Allow() }

func (b *TokenBucket) Wait(ctx context.Context) error { return b.limiter.Wait(ctx) }

// Interval is the spacing between tokens.
func (b *TokenBucket) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(b.limiter.Limit()))
}

// Unlimited never blocks
type Unlimited struct{}

func (Unlimited) Allow() bool                   { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
