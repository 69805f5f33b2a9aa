// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter

import (
	"context"
	"time"

	"golang.org/x/hwcounter/internal/gate"
	"golang.org/x/hwcounter/internal/papi"
)

// The counter hardware is a single process-wide resource, so there is
// exactly one gate guarding it.
var counters = gate.Gate{
	Contended: func() { inst.Load().contention.Add(1) },
}

type (
	// An Action is a Policy's response to finding the counters in use.
	Action = gate.Action
	// A Policy decides, after each collision, whether to try again.
	// attempt counts collisions from 1. A Policy that returns anything
	// other than Retry or Abort causes a panic.
	Policy = gate.Policy
	// Backoff is a randomized exponential backoff Policy.
	Backoff = gate.Backoff
	// A Guard is exclusive ownership of the counters, returned by
	// Acquire and AcquireWait. Call Release when done.
	Guard = gate.Guard
)

const (
	Retry = gate.Retry
	Abort = gate.Abort
)

// DefaultSpinLimit is the number of collisions tolerated by the default
// Policy of Start and Acquire.
const DefaultSpinLimit = gate.DefaultSpinLimit

// Spin returns a Policy that yields the processor between attempts and
// aborts after limit collisions.
func Spin(limit int) Policy { return gate.Spin(limit) }

// Acquire takes exclusive ownership of the counter hardware without
// sleeping, consulting p each time the counters are found in use.
// A nil p spins for at most Config.SpinLimit collisions.
// If p aborts, the error wraps ErrInUse.
func Acquire(p Policy) (*Guard, error) {
	if p == nil {
		p = currentConfig().spinPolicy()
	}
	return acquire(p)
}

// AcquireWait takes exclusive ownership of the counter hardware, backing
// off as configured by Config.Backoff while the counters are in use.
// It gives up when ctx is done.
func AcquireWait(ctx context.Context) (*Guard, error) {
	return acquireWait(ctx, currentConfig().Backoff)
}

func acquire(p Policy) (*Guard, error) {
	return timed(func() (*Guard, error) { return counters.Acquire(p) })
}

func acquireWait(ctx context.Context, b Backoff) (*Guard, error) {
	return timed(func() (*Guard, error) { return counters.AcquireWait(ctx, b) })
}

// timed records how long an acquisition took and logs its failure.
func timed(f func() (*Guard, error)) (*Guard, error) {
	began := time.Now()
	guard, err := f()
	inst.Load().wait.Record(time.Since(began).Seconds())
	if err != nil {
		logger.Printf("acquire: %v", err)
	}
	return guard, err
}

// IsInitialized reports whether the counter facility is usable.
// It waits for the counters to be free.
func IsInitialized() bool {
	guard, err := AcquireWait(context.Background())
	if err != nil {
		return false
	}
	defer guard.Release()
	return papi.Current().IsInitialized()
}

// NumCounters reports the number of hardware counters that can be
// counted at once. It waits for the counters to be free, and fails
// only if ctx is done first.
func NumCounters(ctx context.Context) (int, error) {
	guard, err := AcquireWait(ctx)
	if err != nil {
		return 0, err
	}
	defer guard.Release()
	return papi.Current().NumCounters(), nil
}
