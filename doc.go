// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hwcounter counts hardware events, such as instructions retired
// or cache misses, for the running program.
//
// The counter hardware supports one configuration at a time, so only
// one CounterSet may be running in a process. Start and StartWait
// acquire the counters for a new CounterSet and Close releases them;
// other callers either retry under a Policy of their choosing (Start)
// or back off for a random, exponentially growing delay (StartWait).
//
//	cs, err := hwcounter.StartWait(ctx, []hwcounter.Event{hwcounter.TotIns})
//	if err != nil {
//		return err
//	}
//	defer cs.Close()
//	before, _ := cs.Read()
//	work()
//	after, _ := cs.Accum()
//	fmt.Println(after[0]-before[0], "instructions")
//
// Measure does the same in one call.
//
// On Linux the counters are read with perf_event_open(2). Programs built
// with the papi tag use the PAPI library instead. Setting the GOHWCOUNTER
// environment variable to "perf", "papi" or "off" overrides the choice;
// with "off", or on other systems, IsInitialized reports false and Start
// fails with ENOCNTR.
//
// Failures of the native facility are returned as errors wrapping a
// Status, such as ENOEVNT for an event the hardware cannot count.
package hwcounter
