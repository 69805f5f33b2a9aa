// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/hwcounter"
	"golang.org/x/hwcounter/internal/testenv"
)

var sink int

func fib(n int) int {
	if n < 2 {
		return 1
	}
	return fib(n-1) + fib(n-2)
}

func TestNativeInstructions(t *testing.T) {
	testenv.NeedsPerfEvents(t)
	if !hwcounter.IsInitialized() {
		t.Skip("counter facility not initialized")
	}

	counts, err := hwcounter.Measure(context.Background(), []hwcounter.Event{hwcounter.TotIns}, func() {
		sink += fib(14)
	})
	if err != nil {
		t.Fatal(err)
	}
	if counts[0] <= 0 {
		t.Errorf("fib(14) took %d instructions, want > 0", counts[0])
	}

	// The counters can be started again right away.
	cs, err := hwcounter.Start([]hwcounter.Event{hwcounter.TotIns}, hwcounter.Spin(0))
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := cs.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNativeUnknownEvent(t *testing.T) {
	testenv.NeedsPerfEvents(t)
	if !hwcounter.IsInitialized() {
		t.Skip("counter facility not initialized")
	}
	_, err := hwcounter.Start([]hwcounter.Event{hwcounter.BruIdl}, nil)
	var st hwcounter.Status
	if !errors.As(err, &st) {
		t.Fatalf("Start(BRU_IDL) = %v, want a Status error", err)
	}
	guard, err := hwcounter.Acquire(hwcounter.Spin(0))
	if err != nil {
		t.Fatalf("counters still in use after failed start: %v", err)
	}
	guard.Release()
}
