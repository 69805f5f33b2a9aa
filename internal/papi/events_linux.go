// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papi

import "golang.org/x/sys/unix"

// PAPI preset codes have the sign bit set; the low bits are the
// index into papiStdEventDefs.h.
const presetBase int32 = -1 << 31

const presetTotIns = presetBase | 0x32

type perfEvent struct {
	typ    uint32
	config uint64
}

func hw(config uint64) perfEvent { return perfEvent{unix.PERF_TYPE_HARDWARE, config} }

func hwCache(cache, op, result uint64) perfEvent {
	return perfEvent{unix.PERF_TYPE_HW_CACHE, cache | op<<8 | result<<16}
}

// perfEvents maps preset indexes to the generic perf events the kernel
// translates for the running PMU. Presets without a generic
// equivalent are not listed.
var perfEvents = map[int32]perfEvent{
	0x00: hwCache(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),    // L1_DCM
	0x01: hwCache(unix.PERF_COUNT_HW_CACHE_L1I, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),    // L1_ICM
	0x08: hw(unix.PERF_COUNT_HW_CACHE_MISSES),                                                                              // L3_TCM
	0x0e: hwCache(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),     // L3_LDM
	0x0f: hwCache(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_WRITE, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),    // L3_STM
	0x14: hwCache(unix.PERF_COUNT_HW_CACHE_DTLB, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),   // TLB_DM
	0x15: hwCache(unix.PERF_COUNT_HW_CACHE_ITLB, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),   // TLB_IM
	0x25: hw(unix.PERF_COUNT_HW_STALLED_CYCLES_FRONTEND),                                                                   // STL_ICY
	0x2e: hw(unix.PERF_COUNT_HW_BRANCH_MISSES),                                                                             // BR_MSP
	0x32: hw(unix.PERF_COUNT_HW_INSTRUCTIONS),                                                                              // TOT_INS
	0x37: hw(unix.PERF_COUNT_HW_BRANCH_INSTRUCTIONS),                                                                       // BR_INS
	0x39: hw(unix.PERF_COUNT_HW_STALLED_CYCLES_BACKEND),                                                                    // RES_STL
	0x3b: hw(unix.PERF_COUNT_HW_CPU_CYCLES),                                                                                // TOT_CYC
	0x43: hwCache(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS),  // L1_DCR
	0x46: hwCache(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_WRITE, unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS), // L1_DCW
	0x4c: hwCache(unix.PERF_COUNT_HW_CACHE_L1I, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS),  // L1_ICA
	0x5a: hw(unix.PERF_COUNT_HW_CACHE_REFERENCES),                                                                          // L3_TCA
	0x6b: hw(unix.PERF_COUNT_HW_REF_CPU_CYCLES),                                                                            // REF_CYC
}

// perfAttr returns the perf_event_attr for a preset code.
func perfAttr(code int32) (unix.PerfEventAttr, bool) {
	if code >= 0 {
		return unix.PerfEventAttr{}, false
	}
	ev, ok := perfEvents[code-presetBase]
	if !ok {
		return unix.PerfEventAttr{}, false
	}
	return unix.PerfEventAttr{
		Type:   ev.typ,
		Size:   attrSize,
		Config: ev.config,
	}, true
}
