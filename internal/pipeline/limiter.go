package pipeline

import (
	"context"
	"runtime"
)

// ConcurrencyLimiter is a channel-based semaphore bounding how many
// batches may be in flight at once, keeping a slow sink from piling up
// generated-but-uninserted batches in memory.
type ConcurrencyLimiter struct {
	sem chan struct{}
}

// NewConcurrencyLimiter creates a limiter with the given capacity. A
// non-positive limit defaults to runtime.NumCPU().
func NewConcurrencyLimiter(limit int) *ConcurrencyLimiter {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &ConcurrencyLimiter{sem: make(chan struct{}, limit)}
}

// AcquireContext blocks until a slot is available or the context is
// canceled. A canceled context always fails, even when a slot is free.
func (l *ConcurrencyLimiter) AcquireContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot. Must pair with a successful acquire.
func (l *ConcurrencyLimiter) Release() {
	<-l.sem
}

// Limit returns the configured capacity.
func (l *ConcurrencyLimiter) Limit() int {
	return cap(l.sem)
}

// InUse returns a snapshot of occupied slots.
func (l *ConcurrencyLimiter) InUse() int {
	return len(l.sem)
}
