// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build papi && cgo

package papi

/*
#cgo LDFLAGS: -lpapi
#include <papi.h>
*/
import "C"

import "unsafe"

func init() {
	newPAPI = func() Backend { return libpapi{} }
}

// libpapi calls the PAPI classic high-level counter API.
// PAPI status codes are passed through unchanged.
type libpapi struct{}

func (libpapi) IsInitialized() bool {
	return C.PAPI_is_initialized() != 0
}

func (libpapi) NumCounters() int {
	n := int(C.PAPI_num_counters())
	if n < 0 {
		return 0
	}
	return n
}

func (libpapi) Start(codes []int32) Status {
	if len(codes) == 0 {
		return EINVAL
	}
	return Status(C.PAPI_start_counters((*C.int)(unsafe.Pointer(&codes[0])), C.int(len(codes))))
}

func (libpapi) Stop(values []int64) Status {
	if len(values) == 0 {
		return EINVAL
	}
	return Status(C.PAPI_stop_counters((*C.longlong)(unsafe.Pointer(&values[0])), C.int(len(values))))
}

func (libpapi) Read(values []int64) Status {
	if len(values) == 0 {
		return EINVAL
	}
	return Status(C.PAPI_read_counters((*C.longlong)(unsafe.Pointer(&values[0])), C.int(len(values))))
}

func (libpapi) Accum(values []int64) Status {
	if len(values) == 0 {
		return EINVAL
	}
	return Status(C.PAPI_accum_counters((*C.longlong)(unsafe.Pointer(&values[0])), C.int(len(values))))
}
