// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testenv contains helper functions for skipping tests
// based on what the environment provides.
package testenv

import (
	"runtime"
	"sync"
	"testing"
)

var (
	perfOnce sync.Once
	perfErr  error
)

// NeedsPerfEvents skips t if the kernel does not let this process count
// its own instructions with perf_event_open(2): no PMU (common in
// virtual machines and containers), a restrictive
// perf_event_paranoid, or a non-Linux system.
func NeedsPerfEvents(t testing.TB) {
	t.Helper()
	perfOnce.Do(func() { perfErr = probePerf() })
	if perfErr != nil {
		t.Skipf("skipping test: perf events unavailable on %s/%s: %v", runtime.GOOS, runtime.GOARCH, perfErr)
	}
}
