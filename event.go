// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter

import (
	"fmt"
	"strings"
)

// An Event selects one hardware or software counter. The values are
// the PAPI preset event codes; not every machine can count every event.
type Event uint32

// Preset events, in the order of papiStdEventDefs.h.
const (
	L1Dcm  Event = 0x80000000 + iota // Level 1 data cache misses
	L1Icm                            // Level 1 instruction cache misses
	L2Dcm                            // Level 2 data cache misses
	L2Icm                            // Level 2 instruction cache misses
	L3Dcm                            // Level 3 data cache misses
	L3Icm                            // Level 3 instruction cache misses
	L1Tcm                            // Level 1 total cache misses
	L2Tcm                            // Level 2 total cache misses
	L3Tcm                            // Level 3 total cache misses
	CaSnp                            // Snoops
	CaShr                            // Request for shared cache line (SMP)
	CaCln                            // Request for clean cache line (SMP)
	CaInv                            // Request for cache line Invalidation (SMP)
	CaItv                            // Request for cache line Intervention (SMP)
	L3Ldm                            // Level 3 load misses
	L3Stm                            // Level 3 store misses
	BruIdl                           // Cycles branch units are idle
	FxuIdl                           // Cycles integer units are idle
	FpuIdl                           // Cycles floating point units are idle
	LsuIdl                           // Cycles load/store units are idle
	TlbDm                            // Data translation lookaside buffer misses
	TlbIm                            // Instr translation lookaside buffer misses
	TlbTl                            // Total translation lookaside buffer misses
	L1Ldm                            // Level 1 load misses
	L1Stm                            // Level 1 store misses
	L2Ldm                            // Level 2 load misses
	L2Stm                            // Level 2 store misses
	BtacM                            // BTAC miss
	PrfDm                            // Prefetch data instruction caused a miss
	L3Dch                            // Level 3 Data Cache Hit
	TlbSd                            // Xlation lookaside buffer shootdowns (SMP)
	CsrFal                           // Failed store conditional instructions
	CsrSuc                           // Successful store conditional instructions
	CsrTot                           // Total store conditional instructions
	MemScy                           // Cycles Stalled Waiting for Memory Access
	MemRcy                           // Cycles Stalled Waiting for Memory Read
	MemWcy                           // Cycles Stalled Waiting for Memory Write
	StlIcy                           // Cycles with No Instruction Issue
	FulIcy                           // Cycles with Maximum Instruction Issue
	StlCcy                           // Cycles with No Instruction Completion
	FulCcy                           // Cycles with Maximum Instruction Completion
	HwInt                            // Hardware interrupts
	BrUcn                            // Unconditional branch instructions executed
	BrCn                             // Conditional branch instructions executed
	BrTkn                            // Conditional branch instructions taken
	BrNtk                            // Conditional branch instructions not taken
	BrMsp                            // Conditional branch instructions mispred
	BrPrc                            // Conditional branch instructions corr. pred
	FmaIns                           // FMA instructions completed
	TotIis                           // Total instructions issued
	TotIns                           // Total instructions executed
	IntIns                           // Integer instructions executed
	FpIns                            // Floating point instructions executed
	LdIns                            // Load instructions executed
	SrIns                            // Store instructions executed
	BrIns                            // Total branch instructions executed
	VecIns                           // Vector/SIMD instructions executed (could include integer)
	ResStl                           // Cycles processor is stalled on resource
	FpStal                           // Cycles any FP units are stalled
	TotCyc                           // Total cycles executed
	LstIns                           // Total load/store inst. executed
	SycIns                           // Sync. inst. executed
	L1Dch                            // L1 D Cache Hit
	L2Dch                            // L2 D Cache Hit
	L1Dca                            // L1 D Cache Access
	L2Dca                            // L2 D Cache Access
	L3Dca                            // L3 D Cache Access
	L1Dcr                            // L1 D Cache Read
	L2Dcr                            // L2 D Cache Read
	L3Dcr                            // L3 D Cache Read
	L1Dcw                            // L1 D Cache Write
	L2Dcw                            // L2 D Cache Write
	L3Dcw                            // L3 D Cache Write
	L1Ich                            // L1 instruction cache hits
	L2Ich                            // L2 instruction cache hits
	L3Ich                            // L3 instruction cache hits
	L1Ica                            // L1 instruction cache accesses
	L2Ica                            // L2 instruction cache accesses
	L3Ica                            // L3 instruction cache accesses
	L1Icr                            // L1 instruction cache reads
	L2Icr                            // L2 instruction cache reads
	L3Icr                            // L3 instruction cache reads
	L1Icw                            // L1 instruction cache writes
	L2Icw                            // L2 instruction cache writes
	L3Icw                            // L3 instruction cache writes
	L1Tch                            // L1 total cache hits
	L2Tch                            // L2 total cache hits
	L3Tch                            // L3 total cache hits
	L1Tca                            // L1 total cache accesses
	L2Tca                            // L2 total cache accesses
	L3Tca                            // L3 total cache accesses
	L1Tcr                            // L1 total cache reads
	L2Tcr                            // L2 total cache reads
	L3Tcr                            // L3 total cache reads
	L1Tcw                            // L1 total cache writes
	L2Tcw                            // L2 total cache writes
	L3Tcw                            // L3 total cache writes
	FmlIns                           // FM ins
	FadIns                           // FA ins
	FdvIns                           // FD ins
	FsqIns                           // FSq ins
	FnvIns                           // Finv ins
	FpOps                            // Floating point operations executed
	SpOps                            // Floating point operations executed; optimized to count scaled single precision vector operations
	DpOps                            // Floating point operations executed; optimized to count scaled double precision vector operations
	VecSp                            // Single precision vector/SIMD instructions
	VecDp                            // Double precision vector/SIMD instructions
	RefCyc                           // Reference clock cycles
)

// presets holds the PAPI name without its "PAPI_" prefix and the
// description of each preset, indexed from L1Dcm.
var presets = [...]struct{ name, desc string }{
	{"L1_DCM", "Level 1 data cache misses"},
	{"L1_ICM", "Level 1 instruction cache misses"},
	{"L2_DCM", "Level 2 data cache misses"},
	{"L2_ICM", "Level 2 instruction cache misses"},
	{"L3_DCM", "Level 3 data cache misses"},
	{"L3_ICM", "Level 3 instruction cache misses"},
	{"L1_TCM", "Level 1 total cache misses"},
	{"L2_TCM", "Level 2 total cache misses"},
	{"L3_TCM", "Level 3 total cache misses"},
	{"CA_SNP", "Snoops"},
	{"CA_SHR", "Request for shared cache line (SMP)"},
	{"CA_CLN", "Request for clean cache line (SMP)"},
	{"CA_INV", "Request for cache line Invalidation (SMP)"},
	{"CA_ITV", "Request for cache line Intervention (SMP)"},
	{"L3_LDM", "Level 3 load misses"},
	{"L3_STM", "Level 3 store misses"},
	{"BRU_IDL", "Cycles branch units are idle"},
	{"FXU_IDL", "Cycles integer units are idle"},
	{"FPU_IDL", "Cycles floating point units are idle"},
	{"LSU_IDL", "Cycles load/store units are idle"},
	{"TLB_DM", "Data translation lookaside buffer misses"},
	{"TLB_IM", "Instr translation lookaside buffer misses"},
	{"TLB_TL", "Total translation lookaside buffer misses"},
	{"L1_LDM", "Level 1 load misses"},
	{"L1_STM", "Level 1 store misses"},
	{"L2_LDM", "Level 2 load misses"},
	{"L2_STM", "Level 2 store misses"},
	{"BTAC_M", "BTAC miss"},
	{"PRF_DM", "Prefetch data instruction caused a miss"},
	{"L3_DCH", "Level 3 Data Cache Hit"},
	{"TLB_SD", "Xlation lookaside buffer shootdowns (SMP)"},
	{"CSR_FAL", "Failed store conditional instructions"},
	{"CSR_SUC", "Successful store conditional instructions"},
	{"CSR_TOT", "Total store conditional instructions"},
	{"MEM_SCY", "Cycles Stalled Waiting for Memory Access"},
	{"MEM_RCY", "Cycles Stalled Waiting for Memory Read"},
	{"MEM_WCY", "Cycles Stalled Waiting for Memory Write"},
	{"STL_ICY", "Cycles with No Instruction Issue"},
	{"FUL_ICY", "Cycles with Maximum Instruction Issue"},
	{"STL_CCY", "Cycles with No Instruction Completion"},
	{"FUL_CCY", "Cycles with Maximum Instruction Completion"},
	{"HW_INT", "Hardware interrupts"},
	{"BR_UCN", "Unconditional branch instructions executed"},
	{"BR_CN", "Conditional branch instructions executed"},
	{"BR_TKN", "Conditional branch instructions taken"},
	{"BR_NTK", "Conditional branch instructions not taken"},
	{"BR_MSP", "Conditional branch instructions mispred"},
	{"BR_PRC", "Conditional branch instructions corr. pred"},
	{"FMA_INS", "FMA instructions completed"},
	{"TOT_IIS", "Total instructions issued"},
	{"TOT_INS", "Total instructions executed"},
	{"INT_INS", "Integer instructions executed"},
	{"FP_INS", "Floating point instructions executed"},
	{"LD_INS", "Load instructions executed"},
	{"SR_INS", "Store instructions executed"},
	{"BR_INS", "Total branch instructions executed"},
	{"VEC_INS", "Vector/SIMD instructions executed (could include integer)"},
	{"RES_STL", "Cycles processor is stalled on resource"},
	{"FP_STAL", "Cycles any FP units are stalled"},
	{"TOT_CYC", "Total cycles executed"},
	{"LST_INS", "Total load/store inst. executed"},
	{"SYC_INS", "Sync. inst. executed"},
	{"L1_DCH", "L1 D Cache Hit"},
	{"L2_DCH", "L2 D Cache Hit"},
	{"L1_DCA", "L1 D Cache Access"},
	{"L2_DCA", "L2 D Cache Access"},
	{"L3_DCA", "L3 D Cache Access"},
	{"L1_DCR", "L1 D Cache Read"},
	{"L2_DCR", "L2 D Cache Read"},
	{"L3_DCR", "L3 D Cache Read"},
	{"L1_DCW", "L1 D Cache Write"},
	{"L2_DCW", "L2 D Cache Write"},
	{"L3_DCW", "L3 D Cache Write"},
	{"L1_ICH", "L1 instruction cache hits"},
	{"L2_ICH", "L2 instruction cache hits"},
	{"L3_ICH", "L3 instruction cache hits"},
	{"L1_ICA", "L1 instruction cache accesses"},
	{"L2_ICA", "L2 instruction cache accesses"},
	{"L3_ICA", "L3 instruction cache accesses"},
	{"L1_ICR", "L1 instruction cache reads"},
	{"L2_ICR", "L2 instruction cache reads"},
	{"L3_ICR", "L3 instruction cache reads"},
	{"L1_ICW", "L1 instruction cache writes"},
	{"L2_ICW", "L2 instruction cache writes"},
	{"L3_ICW", "L3 instruction cache writes"},
	{"L1_TCH", "L1 total cache hits"},
	{"L2_TCH", "L2 total cache hits"},
	{"L3_TCH", "L3 total cache hits"},
	{"L1_TCA", "L1 total cache accesses"},
	{"L2_TCA", "L2 total cache accesses"},
	{"L3_TCA", "L3 total cache accesses"},
	{"L1_TCR", "L1 total cache reads"},
	{"L2_TCR", "L2 total cache reads"},
	{"L3_TCR", "L3 total cache reads"},
	{"L1_TCW", "L1 total cache writes"},
	{"L2_TCW", "L2 total cache writes"},
	{"L3_TCW", "L3 total cache writes"},
	{"FML_INS", "FM ins"},
	{"FAD_INS", "FA ins"},
	{"FDV_INS", "FD ins"},
	{"FSQ_INS", "FSq ins"},
	{"FNV_INS", "Finv ins"},
	{"FP_OPS", "Floating point operations executed"},
	{"SP_OPS", "Floating point operations executed; optimized to count scaled single precision vector operations"},
	{"DP_OPS", "Floating point operations executed; optimized to count scaled double precision vector operations"},
	{"VEC_SP", "Single precision vector/SIMD instructions"},
	{"VEC_DP", "Double precision vector/SIMD instructions"},
	{"REF_CYC", "Reference clock cycles"},
}

// Code returns the native encoding of e.
func (e Event) Code() int32 { return int32(e) }

func (e Event) preset() (int, bool) {
	i := int(e - L1Dcm)
	return i, e >= L1Dcm && i < len(presets)
}

// String returns the PAPI name of e, such as "PAPI_TOT_INS".
func (e Event) String() string {
	if i, ok := e.preset(); ok {
		return "PAPI_" + presets[i].name
	}
	return fmt.Sprintf("Event(%#x)", uint32(e))
}

// Description returns a short description of what e counts.
func (e Event) Description() string {
	if i, ok := e.preset(); ok {
		return presets[i].desc
	}
	return ""
}

// Events returns all preset events.
func Events() []Event {
	events := make([]Event, len(presets))
	for i := range events {
		events[i] = L1Dcm + Event(i)
	}
	return events
}

// ParseEvent returns the preset event with the given name.
// The "PAPI_" prefix is optional and case is ignored.
func ParseEvent(name string) (Event, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "PAPI_")
	for i, p := range presets {
		if p.name == key {
			return L1Dcm + Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}
