// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/hwcounter/internal/papi"
)

// A CounterSet is a running configuration of hardware counters.
//
// A CounterSet owns the counter hardware from Start until Close:
// no other CounterSet in the process can start in between. It counts
// events of the OS thread that started it, so Start locks the calling
// goroutine to its thread and Close unlocks it. A CounterSet must be
// used and closed by the goroutine that started it, normally with
//
//	cs, err := hwcounter.StartWait(ctx, events)
//	if err != nil {
//		return err
//	}
//	defer cs.Close()
type CounterSet struct {
	events  []Event
	codes   []int32
	values  []int64
	guard   *Guard
	backend papi.Backend
	in      *instruments
	closed  bool
}

// Start acquires the counters, consulting p whenever they are in use,
// and starts counting events. A nil p spins for at most
// Config.SpinLimit collisions before failing with ErrInUse.
//
// If the native facility refuses the events, Start releases the
// counters and returns an error wrapping its Status.
func Start(events []Event, p Policy) (*CounterSet, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	if p == nil {
		p = currentConfig().spinPolicy()
	}
	guard, err := acquire(p)
	if err != nil {
		return nil, err
	}
	return start(events, guard)
}

// StartWait is like Start but backs off as configured by Config.Backoff
// while the counters are in use. It gives up when ctx is done.
func StartWait(ctx context.Context, events []Event) (*CounterSet, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	guard, err := acquireWait(ctx, currentConfig().Backoff)
	if err != nil {
		return nil, err
	}
	return start(events, guard)
}

func start(events []Event, guard *Guard) (_ *CounterSet, err error) {
	runtime.LockOSThread()
	defer func() {
		if err != nil {
			runtime.UnlockOSThread()
			guard.Release()
		}
	}()

	s := &CounterSet{
		events:  slices.Clone(events),
		codes:   make([]int32, len(events)),
		values:  make([]int64, len(events)),
		guard:   guard,
		backend: papi.Current(),
		in:      inst.Load(),
	}
	for i, e := range events {
		s.codes[i] = e.Code()
	}
	if err = s.check("start counters", s.backend.Start(s.codes)); err != nil {
		return nil, err
	}
	s.in.started.Add(1)
	s.in.active.Add(1)
	runtime.SetFinalizer(s, (*CounterSet).finalize)
	return s, nil
}

// Events returns the events being counted, in the order of their values.
func (s *CounterSet) Events() []Event {
	return slices.Clone(s.events)
}

// Values returns the counts from the most recent Read, Accum or Close.
func (s *CounterSet) Values() []int64 {
	return slices.Clone(s.values)
}

// Read returns the current counts, one per event. Reading does not
// reset the counters: without an intervening Accum, the counts are
// totals since Start.
func (s *CounterSet) Read() ([]int64, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.check("read counters", s.backend.Read(s.values)); err != nil {
		return nil, err
	}
	return slices.Clone(s.values), nil
}

// Accum adds the counts since the previous Accum (or Start) to a running
// total kept by s, resets the counters, and returns the running totals.
//
// A Read right after Start followed by an Accum after some work gives
// the work's counts as the difference of the two results.
func (s *CounterSet) Accum() ([]int64, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.check("accumulate counters", s.backend.Accum(s.values)); err != nil {
		return nil, err
	}
	return slices.Clone(s.values), nil
}

// Close stops the counters and releases them for the next CounterSet.
// The counters are released even if stopping them fails. Close must be
// called on the goroutine that started s; calls after the first do
// nothing and return nil.
func (s *CounterSet) Close() error {
	if s.closed {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	defer runtime.UnlockOSThread()
	return s.stop()
}

func (s *CounterSet) stop() error {
	s.closed = true
	defer s.guard.Release()
	s.in.active.Add(-1)
	return s.check("stop counters", s.backend.Stop(s.values))
}

// finalize stops a CounterSet that became unreachable without Close,
// so that the counters do not stay in use forever.
func (s *CounterSet) finalize() {
	logger.Printf("counter set %v was not closed", s.events)
	s.stop()
}

func (s *CounterSet) check(op string, st Status) error {
	if st == OK {
		return nil
	}
	s.in.failures.Add(1)
	logger.Printf("%s %v: %v", op, s.events, st)
	return fmt.Errorf("%s: %w", op, st)
}

// Measure counts events while running f and returns the counts f
// produced, one per event. It waits for the counters as StartWait does
// and always releases them, even if f panics.
func Measure(ctx context.Context, events []Event, f func()) (counts []int64, err error) {
	s, err := StartWait(ctx, events)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	before, err := s.Read()
	if err != nil {
		return nil, err
	}
	f()
	after, err := s.Accum()
	if err != nil {
		return nil, err
	}
	for i := range after {
		after[i] -= before[i]
	}
	return after, nil
}
