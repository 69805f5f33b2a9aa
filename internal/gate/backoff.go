// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Backoff is a randomized exponential backoff Policy.
//
// After the k'th collision it sleeps for a duration drawn uniformly
// from [0, Window(k)) and retries. The window is one Base unit for the
// first collision and doubles on each subsequent one, up to Max.
type Backoff struct {
	Base        time.Duration // first window; DefaultBase if zero
	Max         time.Duration // window cap; DefaultMax if zero
	MaxAttempts int           // abort after this many collisions; 0 means never

	// Rand returns a uniform value in [0, n). It defaults to rand.Int64N.
	Rand func(n int64) int64
	// Sleep waits for d or until ctx is done. It defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

const (
	DefaultBase = time.Millisecond
	DefaultMax  = time.Second
)

// Window returns the upper bound of the delay after the k'th collision.
func (b Backoff) Window(k int) time.Duration {
	base, limit := b.Base, b.Max
	if base <= 0 {
		base = DefaultBase
	}
	if limit <= 0 {
		limit = DefaultMax
	}
	w := min(base, limit)
	for i := 1; i < k && w < limit; i++ {
		if w > limit/2 {
			return limit
		}
		w *= 2
	}
	return w
}

// Policy returns a Policy that applies b until ctx is done.
// If the Policy aborts because of ctx, cause reports ctx.Err().
func (b Backoff) Policy(ctx context.Context) (p Policy, cause func() error) {
	rnd := b.Rand
	if rnd == nil {
		rnd = rand.Int64N
	}
	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	var err error
	p = func(attempt int) Action {
		if b.MaxAttempts > 0 && attempt > b.MaxAttempts {
			return Abort
		}
		delay := time.Duration(rnd(int64(b.Window(attempt))))
		if err = sleep(ctx, delay); err != nil {
			return Abort
		}
		return Retry
	}
	return p, func() error { return err }
}

// AcquireWait acquires g using the backoff policy b. It gives up when
// ctx is done or b.MaxAttempts is exceeded.
func (g *Gate) AcquireWait(ctx context.Context, b Backoff) (*Guard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInUse, err)
	}
	p, cause := b.Policy(ctx)
	guard, err := g.Acquire(p)
	if err != nil {
		if cerr := cause(); cerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInUse, cerr)
		}
		return nil, err
	}
	return guard, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
