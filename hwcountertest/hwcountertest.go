// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hwcountertest provides a programmable counter facility for
// testing code that uses hwcounter, on machines with or without
// counter hardware. This package cannot be used except for testing.
package hwcountertest

import (
	"slices"
	"sync"

	"golang.org/x/hwcounter"
	"golang.org/x/hwcounter/internal/papi"
)

// Open makes f the counter facility used by CounterSets started from
// now on. It returns a function that restores the previous facility.
func Open(f *Fake) (restore func()) {
	return papi.SetBackend(f)
}

// A Fake is a counter facility whose counts advance only when told to.
// Its methods are safe for concurrent use.
type Fake struct {
	// Step is added to every running count each time the counts are
	// sampled by Read, Accum or Stop.
	Step int64
	// Counters is reported by NumCounters.
	Counters int
	// Unsupported events make Start fail with ENOEVNT, as do codes
	// outside the preset range.
	Unsupported []hwcounter.Event
	// Non-OK values make the corresponding operation fail.
	FailStart, FailRead, FailAccum, FailStop hwcounter.Status

	mu      sync.Mutex
	codes   []int32
	counts  []int64
	running bool
	starts  int
	stops   int
	clashes int
}

func (f *Fake) IsInitialized() bool { return true }

func (f *Fake) NumCounters() int { return f.Counters }

func (f *Fake) Start(codes []int32) hwcounter.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		f.clashes++
		return hwcounter.EISRUN
	}
	if len(codes) == 0 {
		return hwcounter.EINVAL
	}
	for _, code := range codes {
		e := hwcounter.Event(code)
		if e.Description() == "" || slices.Contains(f.Unsupported, e) {
			return hwcounter.ENOEVNT
		}
	}
	if f.FailStart != hwcounter.OK {
		return f.FailStart
	}
	f.codes = slices.Clone(codes)
	f.counts = make([]int64, len(codes))
	f.running = true
	f.starts++
	return hwcounter.OK
}

func (f *Fake) Stop(values []int64) hwcounter.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st := f.sample(values); st != hwcounter.OK {
		return st
	}
	f.running = false
	f.stops++
	if f.FailStop != hwcounter.OK {
		return f.FailStop
	}
	copy(values, f.counts)
	return hwcounter.OK
}

func (f *Fake) Read(values []int64) hwcounter.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st := f.sample(values); st != hwcounter.OK {
		return st
	}
	if f.FailRead != hwcounter.OK {
		return f.FailRead
	}
	copy(values, f.counts)
	return hwcounter.OK
}

func (f *Fake) Accum(values []int64) hwcounter.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st := f.sample(values); st != hwcounter.OK {
		return st
	}
	if f.FailAccum != hwcounter.OK {
		return f.FailAccum
	}
	for i, n := range f.counts {
		values[i] += n
		f.counts[i] = 0
	}
	return hwcounter.OK
}

func (f *Fake) sample(values []int64) hwcounter.Status {
	if !f.running {
		return hwcounter.ENOTRUN
	}
	if len(values) != len(f.counts) {
		return hwcounter.EINVAL
	}
	for i := range f.counts {
		f.counts[i] += f.Step
	}
	return hwcounter.OK
}

// Add simulates work by adding n to the count of e, if e is running.
func (f *Fake) Add(e hwcounter.Event, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return
	}
	for i, code := range f.codes {
		if code == e.Code() {
			f.counts[i] += n
		}
	}
}

// Running reports whether the counters are started.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Starts and Stops report how many times the counters were started
// and stopped.
func (f *Fake) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Clashes reports how many times Start was called while the counters
// were already running.
func (f *Fake) Clashes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clashes
}
