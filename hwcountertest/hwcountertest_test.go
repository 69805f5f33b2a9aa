// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcountertest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/hwcounter"
)

func TestFake(t *testing.T) {
	f := &Fake{Step: 1}
	codes := []int32{hwcounter.TotIns.Code(), hwcounter.TotCyc.Code()}
	values := make([]int64, 2)

	if st := f.Read(values); st != hwcounter.ENOTRUN {
		t.Errorf("Read before Start = %v, want %v", st, hwcounter.ENOTRUN)
	}
	if st := f.Start(codes); st != hwcounter.OK {
		t.Fatalf("Start = %v", st)
	}
	if st := f.Start(codes); st != hwcounter.EISRUN {
		t.Errorf("second Start = %v, want %v", st, hwcounter.EISRUN)
	}
	if got := f.Clashes(); got != 1 {
		t.Errorf("Clashes() = %d, want 1", got)
	}
	if st := f.Read(make([]int64, 3)); st != hwcounter.EINVAL {
		t.Errorf("Read with 3 values = %v, want %v", st, hwcounter.EINVAL)
	}

	f.Add(hwcounter.TotIns, 100)
	if st := f.Read(values); st != hwcounter.OK {
		t.Fatalf("Read = %v", st)
	}
	// The rejected Read above sampled nothing: one step so far.
	if diff := cmp.Diff([]int64{101, 1}, values); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
	if st := f.Accum(values); st != hwcounter.OK {
		t.Fatalf("Accum = %v", st)
	}
	if diff := cmp.Diff([]int64{203, 3}, values); diff != "" {
		t.Errorf("Accum mismatch (-want +got):\n%s", diff)
	}
	if st := f.Stop(values); st != hwcounter.OK {
		t.Fatalf("Stop = %v", st)
	}
	if diff := cmp.Diff([]int64{1, 1}, values); diff != "" {
		t.Errorf("Stop mismatch (-want +got):\n%s", diff)
	}
	if f.Running() || f.Starts() != 1 || f.Stops() != 1 {
		t.Errorf("after Stop: Running=%v Starts=%d Stops=%d, want false 1 1", f.Running(), f.Starts(), f.Stops())
	}
}

func TestFakeUnsupported(t *testing.T) {
	f := &Fake{Unsupported: []hwcounter.Event{hwcounter.BruIdl}}
	tests := []struct {
		codes []int32
		want  hwcounter.Status
	}{
		{[]int32{hwcounter.BruIdl.Code()}, hwcounter.ENOEVNT},
		{[]int32{hwcounter.TotIns.Code(), 7}, hwcounter.ENOEVNT},
		{nil, hwcounter.EINVAL},
	}
	for _, tt := range tests {
		if st := f.Start(tt.codes); st != tt.want {
			t.Errorf("Start(%v) = %v, want %v", tt.codes, st, tt.want)
		}
	}
	if f.Running() {
		t.Error("Running() = true after failed starts")
	}
}
