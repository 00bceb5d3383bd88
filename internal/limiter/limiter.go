package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight caps concurrent filesystem operations when no explicit
// limit is configured. Large glob expansions can otherwise exhaust file
// descriptors.
const DefaultMaxInFlight = 8

// Limiter bounds the number of in-flight filesystem operations. A single
// instance is shared across resolution and both deletion phases so the cap
// applies to the whole batch, not per stage.
type Limiter struct {
	sem *semaphore.Weighted
	max int
}

// New creates a limiter allowing at most max concurrent operations.
// Non-positive values fall back to DefaultMaxInFlight.
func New(max int) *Limiter {
	if max <= 0 {
		max = DefaultMaxInFlight
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(max)), max: max}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release frees a slot previously obtained with Acquire.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Max returns the configured concurrency bound.
func (l *Limiter) Max() int {
	return l.max
}
