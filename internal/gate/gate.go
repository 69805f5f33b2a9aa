// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gate implements a mutual-exclusion flag whose acquisition
// never blocks: a collision is reported to a caller-supplied Policy,
// which decides whether to try again.
package gate

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrInUse is returned when an acquisition is abandoned because
// another holder kept the gate.
var ErrInUse = errors.New("counters in use")

// An Action is a Policy's response to a collision.
type Action int

const (
	Retry Action = iota // try to acquire again
	Abort               // give up with ErrInUse
)

func (a Action) String() string {
	switch a {
	case Retry:
		return "Retry"
	case Abort:
		return "Abort"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// A Policy is consulted each time an acquisition finds the gate held.
// attempt counts the collisions of this acquisition, starting at 1.
// A Policy may sleep before returning Retry; it must not return
// anything other than Retry or Abort.
type Policy func(attempt int) Action

// DefaultSpinLimit is the number of collisions tolerated by the
// policy used when Acquire is given none.
const DefaultSpinLimit = 1 << 12

// Spin returns a Policy that yields the processor between attempts
// and aborts after limit collisions.
func Spin(limit int) Policy {
	return func(attempt int) Action {
		if attempt > limit {
			return Abort
		}
		runtime.Gosched()
		return Retry
	}
}

// A Gate is a mutual-exclusion flag. The zero value is free.
type Gate struct {
	held atomic.Bool

	// Contended, if set, is called once by each acquisition that
	// finds the gate held.
	Contended func()
}

// A Guard is a successful acquisition of a Gate.
type Guard struct {
	g        *Gate
	released atomic.Bool
}

// TryAcquire makes a single attempt to acquire g.
func (g *Gate) TryAcquire() (*Guard, bool) {
	if !g.held.CompareAndSwap(false, true) {
		return nil, false
	}
	return &Guard{g: g}, true
}

// Acquire acquires g, consulting p after every collision.
// A nil p means Spin(DefaultSpinLimit).
// Acquire panics if p returns an Action other than Retry or Abort.
func (g *Gate) Acquire(p Policy) (*Guard, error) {
	if p == nil {
		p = Spin(DefaultSpinLimit)
	}
	for attempt := 1; ; attempt++ {
		if guard, ok := g.TryAcquire(); ok {
			return guard, nil
		}
		if attempt == 1 && g.Contended != nil {
			g.Contended()
		}
		switch a := p(attempt); a {
		case Retry:
		case Abort:
			return nil, fmt.Errorf("%w after %d attempts", ErrInUse, attempt)
		default:
			panic(fmt.Sprintf("gate: policy returned invalid %v", a))
		}
	}
}

// Held reports whether g is currently held.
func (g *Gate) Held() bool {
	return g.held.Load()
}

// Release frees the gate. Only the first call has an effect.
func (gd *Guard) Release() {
	if gd.released.CompareAndSwap(false, true) {
		gd.g.held.Store(false)
	}
}
