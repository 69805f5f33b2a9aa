// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package papi is the call surface to the native hardware counter facility.
//
// A Backend is stateless from the caller's point of view: every call
// reports a Status and nothing more. Serialising calls and pairing
// Start with Stop are the job of the hwcounter package.
package papi

import (
	"os"
	"sync"
)

// A Backend is one implementation of the native counter facility.
//
// The value slices passed to Stop, Read and Accum must have exactly
// as many elements as codes passed to the preceding Start; a length
// mismatch is reported as EINVAL.
type Backend interface {
	// IsInitialized reports whether the facility is usable.
	IsInitialized() bool
	// NumCounters reports the number of hardware counters, or 0.
	NumCounters() int
	// Start starts counting the given native event codes.
	Start(codes []int32) Status
	// Stop stops counting and stores the final counts in values.
	Stop(values []int64) Status
	// Read stores the current counts in values without resetting them.
	Read(values []int64) Status
	// Accum adds the current counts to values and resets the counters.
	Accum(values []int64) Status
}

// Backend constructors, registered by the files that implement them.
var (
	newPerf func() Backend // perf_event_open(2), Linux only
	newPAPI func() Backend // libpapi, with the papi build tag
)

// ModeEnv names the environment variable that selects the backend.
const ModeEnv = "GOHWCOUNTER"

// Mode returns the backend mode requested in the environment:
// "perf", "papi", "off", or "" for the build default.
// Unrecognized values are treated as "".
func Mode() string {
	switch mode := os.Getenv(ModeEnv); mode {
	case "perf", "papi", "off":
		return mode
	default:
		return ""
	}
}

func selectBackend(mode string) Backend {
	switch mode {
	case "off":
	case "perf":
		if newPerf != nil {
			return newPerf()
		}
	case "papi":
		if newPAPI != nil {
			return newPAPI()
		}
	default:
		if newPAPI != nil {
			return newPAPI()
		}
		if newPerf != nil {
			return newPerf()
		}
	}
	return unsupported{}
}

var (
	mu      sync.Mutex
	current Backend
)

// Current returns the active backend, selecting it on first use.
func Current() Backend {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = selectBackend(Mode())
	}
	return current
}

// SetBackend replaces the active backend and returns a function that
// restores the previous one. It is meant for tests.
func SetBackend(b Backend) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	current = b
	return func() {
		mu.Lock()
		defer mu.Unlock()
		current = prev
	}
}

// unsupported is the backend of platforms without a counter facility.
type unsupported struct{}

func (unsupported) IsInitialized() bool  { return false }
func (unsupported) NumCounters() int     { return 0 }
func (unsupported) Start([]int32) Status { return ENOCNTR }
func (unsupported) Stop([]int64) Status  { return ENOTRUN }
func (unsupported) Read([]int64) Status  { return ENOTRUN }
func (unsupported) Accum([]int64) Status { return ENOTRUN }
