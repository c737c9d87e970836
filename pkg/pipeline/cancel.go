package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"talentpipe/pkg/retry"
)

// CancelToken is the run's stop switch. Cancel flips a flag the pipeline
// polls before each batch and each profile, and ends any pending delay.
// Requests already in flight are not aborted.
type CancelToken struct {
	flag   atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
}

func NewCancelToken() *CancelToken {
	ctx, cancel := context.WithCancel(context.Background())
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Cancel is safe to call more than once and from any goroutine
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
	t.cancel()
}

func (t *CancelToken) Cancelled() bool {
	return t.flag.Load()
}

// Done is closed once Cancel has been called
func (t *CancelToken) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Sleeper waits between steps. Implementations return early when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on the wall clock
var RealSleeper Sleeper = SleeperFunc(retry.Wait)

// NoSleep returns immediately; tests use it to run without delays
var NoSleep Sleeper = SleeperFunc(func(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
})
