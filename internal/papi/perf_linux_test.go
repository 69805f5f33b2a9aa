// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papi

import (
	"runtime"
	"testing"

	"golang.org/x/hwcounter/internal/testenv"
)

func fib(n int) int {
	if n < 2 {
		return 1
	}
	return fib(n-1) + fib(n-2)
}

func TestKernelVersion(t *testing.T) {
	tests := []struct {
		release string
		want    string
	}{
		{"6.8.0-45-generic", "v6.8.0"},
		{"6.18.44-fc-v130", "v6.18.44"},
		{"2.6.32.27", "v2.6.32"},
		{"5.10", "v5.10"},
		{"4.19.0+", "v4.19.0"},
		{"", ""},
		{"generic", ""},
	}
	for _, tt := range tests {
		if got := kernelVersion(tt.release); got != tt.want {
			t.Errorf("kernelVersion(%q) = %q, want %q", tt.release, got, tt.want)
		}
	}
}

func TestPerfAttr(t *testing.T) {
	if _, ok := perfAttr(presetTotIns); !ok {
		t.Errorf("perfAttr(TOT_INS) not found")
	}
	for _, code := range []int32{0, 42, presetCode(0x10), presetCode(0x6c)} {
		if _, ok := perfAttr(code); ok {
			t.Errorf("perfAttr(%#x) found, want not found", uint32(code))
		}
	}
}

func TestPerfLifecycle(t *testing.T) {
	testenv.NeedsPerfEvents(t)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p := new(perfBackend)
	if !p.IsInitialized() {
		t.Fatal("IsInitialized() = false on a kernel with perf events")
	}

	values := make([]int64, 1)
	if st := p.Read(values); st != ENOTRUN {
		t.Errorf("Read before Start = %v, want %v", st, ENOTRUN)
	}
	if st := p.Start([]int32{presetTotIns}); st != OK {
		t.Fatalf("Start = %v", st)
	}
	if st := p.Start([]int32{presetTotIns}); st != EISRUN {
		t.Errorf("second Start = %v, want %v", st, EISRUN)
	}
	if st := p.Read(make([]int64, 2)); st != EINVAL {
		t.Errorf("Read with 2 values = %v, want %v", st, EINVAL)
	}
	if st := p.Read(values); st != OK {
		t.Fatalf("Read = %v", st)
	}
	start := values[0]
	sink += fib(20)
	if st := p.Accum(values); st != OK {
		t.Fatalf("Accum = %v", st)
	}
	if got := values[0] - start; got <= 0 {
		t.Errorf("instructions for fib(20) = %d, want > 0", got)
	}
	if st := p.Stop(values); st != OK {
		t.Errorf("Stop = %v", st)
	}
	if st := p.Stop(values); st != ENOTRUN {
		t.Errorf("second Stop = %v, want %v", st, ENOTRUN)
	}
}

func TestPerfUnknownEvent(t *testing.T) {
	testenv.NeedsPerfEvents(t)
	p := new(perfBackend)
	if st := p.Start([]int32{presetTotIns, presetCode(0x10)}); st != ENOEVNT {
		t.Errorf("Start(TOT_INS, BRU_IDL) = %v, want %v", st, ENOEVNT)
	}
	// The failed start must not leave anything running.
	if st := p.Start([]int32{presetTotIns}); st != OK {
		t.Fatalf("Start after failure = %v", st)
	}
	if st := p.Stop(make([]int64, 1)); st != OK {
		t.Errorf("Stop = %v", st)
	}
}

func TestPerfNumCounters(t *testing.T) {
	testenv.NeedsPerfEvents(t)
	if n := new(perfBackend).NumCounters(); n < 1 || n > maxProbe {
		t.Errorf("NumCounters() = %d, want in [1, %d]", n, maxProbe)
	}
}
