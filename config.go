// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/metrics"
	"golang.org/x/hwcounter/internal/gate"
)

// Config controls the behavior of the package. See [Configure].
type Config struct {
	// Logging receives diagnostic messages: abandoned acquisitions,
	// native failures and CounterSets that were never closed.
	// Nothing is logged if it is nil.
	Logging io.Writer

	// Metrics records gate contention and session activity.
	// A nil Metrics discards all measurements.
	Metrics metrics.Provider

	// Backoff is the policy of StartWait, AcquireWait and Measure.
	// The zero value uses gate.DefaultBase and gate.DefaultMax
	// and waits until the context is done.
	Backoff Backoff

	// SpinLimit bounds the collisions tolerated by Start and Acquire
	// when they are given a nil Policy. Zero means DefaultSpinLimit.
	SpinLimit int
}

var logger = log.New(io.Discard, "hwcounter: ", log.LstdFlags)

var (
	configMu sync.Mutex
	config   Config
)

// Configure replaces the package configuration. It may be called at any
// time; sessions already started keep the configuration they began with.
func Configure(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	config = cfg
	if cfg.Logging != nil {
		logger.SetOutput(cfg.Logging)
	} else {
		logger.SetOutput(io.Discard)
	}
	inst.Store(newInstruments(cfg.Metrics))
}

func currentConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	return config
}

func (c Config) spinPolicy() Policy {
	if c.SpinLimit > 0 {
		return gate.Spin(c.SpinLimit)
	}
	return gate.Spin(gate.DefaultSpinLimit)
}

// instruments are the metrics the package records.
type instruments struct {
	started    metrics.Counter
	active     metrics.UpDownCounter
	contention metrics.Counter
	wait       metrics.Histogram
	failures   metrics.Counter
}

var inst atomic.Pointer[instruments]

func init() {
	inst.Store(newInstruments(nil))
}

func newInstruments(p metrics.Provider) *instruments {
	if p == nil {
		p = metrics.NewNoopProvider()
	}
	return &instruments{
		started: p.Counter("hwcounter_sessions_started_total",
			metrics.WithDescription("Counter sets started"), metrics.WithUnit("1")),
		active: p.UpDownCounter("hwcounter_sessions_active",
			metrics.WithDescription("Counter sets not yet closed"), metrics.WithUnit("1")),
		contention: p.Counter("hwcounter_gate_contention_total",
			metrics.WithDescription("Acquisitions that found the counters in use"), metrics.WithUnit("1")),
		wait: p.Histogram("hwcounter_gate_wait_seconds",
			metrics.WithDescription("Time spent acquiring the counters"), metrics.WithUnit("seconds")),
		failures: p.Counter("hwcounter_native_errors_total",
			metrics.WithDescription("Native counter calls that did not return OK"), metrics.WithUnit("1")),
	}
}
