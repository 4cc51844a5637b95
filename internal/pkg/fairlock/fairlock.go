// Package fairlock provides a FIFO mutual-exclusion lock that can be
// re-acquired along the call chain of its holder.
package fairlock

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

type holderKey struct {
	lock *Lock
}

// hold is one acquisition. It stops granting ownership once released, so a
// context kept past release cannot re-enter the lock without blocking.
type hold struct {
	released atomic.Bool
}

// Lock grants ownership to waiters in arrival order. Ownership is carried by
// the context returned from Lock: until the matching release, a nested Lock
// call on that context (or one derived from it) succeeds immediately without
// blocking.
type Lock struct {
	sem *semaphore.Weighted
}

// New creates an unlocked Lock.
func New() *Lock {
	return &Lock{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lock is acquired or ctx is done. The returned context
// must be passed to any code that may lock again, and the returned function
// releases the lock. For a nested acquisition the release function is a no-op.
func (l *Lock) Lock(ctx context.Context) (context.Context, func(), error) {
	if l.Held(ctx) {
		return ctx, func() {}, nil
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return ctx, func() {}, fmt.Errorf("failed to acquire lock: %w", err)
	}

	h := &hold{}
	release := func() {
		if h.released.CompareAndSwap(false, true) {
			l.sem.Release(1)
		}
	}
	return context.WithValue(ctx, holderKey{lock: l}, h), release, nil
}

// Held reports whether ctx carries an acquisition of l that has not been
// released yet.
func (l *Lock) Held(ctx context.Context) bool {
	h, ok := ctx.Value(holderKey{lock: l}).(*hold)
	return ok && !h.released.Load()
}
