// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papi

import "strconv"

// A Status is a result code of the native counter library.
// Every value other than OK is a failure; a non-OK Status
// satisfies the error interface, in the manner of syscall.Errno.
type Status int32

// Status codes, numbered as in papi.h.
const (
	OK         Status = 0   // No error
	EINVAL     Status = -1  // Invalid argument
	ENOMEM     Status = -2  // Insufficient memory
	ESYS       Status = -3  // A System/C library call failed
	ECMP       Status = -4  // Not supported by component
	ECLOST     Status = -5  // Access to the counters was lost or interrupted
	EBUG       Status = -6  // Internal error
	ENOEVNT    Status = -7  // Event does not exist
	ECNFLCT    Status = -8  // Event exists, but cannot be counted due to counter resource limitations
	ENOTRUN    Status = -9  // EventSet is currently not running
	EISRUN     Status = -10 // EventSet is currently counting
	ENOEVST    Status = -11 // No such EventSet available
	ENOTPRESET Status = -12 // Event in argument is not a valid preset
	ENOCNTR    Status = -13 // Hardware does not support performance counters
	EMISC      Status = -14 // Unknown error code
	EPERM      Status = -15 // Permission level does not permit operation
	ENOINIT    Status = -16 // Library hasn't been initialized yet
	ENOCMP     Status = -17 // Component index isn't set
	ENOSUPP    Status = -18 // Not supported
	ENOIMPL    Status = -19 // Not implemented
	EBUF       Status = -20 // Buffer size exceeded
	EINVALDOM  Status = -21 // EventSet domain is not supported for the operation
	EATTR      Status = -22 // Invalid or missing event attributes
	ECOUNT     Status = -23 // Too many events or attributes
	ECOMBO     Status = -24 // Bad combination of features
)

// ESBSTR is the old name of ECMP.
const ESBSTR = ECMP

var statusText = [...]string{
	-OK:         "no error",
	-EINVAL:     "invalid argument",
	-ENOMEM:     "insufficient memory",
	-ESYS:       "a system or C library call failed",
	-ECMP:       "not supported by component",
	-ECLOST:     "access to the counters was lost or interrupted",
	-EBUG:       "internal error",
	-ENOEVNT:    "event does not exist",
	-ECNFLCT:    "event exists, but cannot be counted due to counter resource limitations",
	-ENOTRUN:    "counters are not running",
	-EISRUN:     "counters are already running",
	-ENOEVST:    "no such event set available",
	-ENOTPRESET: "event is not a valid preset",
	-ENOCNTR:    "hardware does not support performance counters",
	-EMISC:      "unknown error code",
	-EPERM:      "permission level does not permit operation",
	-ENOINIT:    "counter library has not been initialized",
	-ENOCMP:     "component index isn't set",
	-ENOSUPP:    "not supported",
	-ENOIMPL:    "not implemented",
	-EBUF:       "buffer size exceeded",
	-EINVALDOM:  "event set domain is not supported for the operation",
	-EATTR:      "invalid or missing event attributes",
	-ECOUNT:     "too many events or attributes",
	-ECOMBO:     "bad combination of features",
}

func (s Status) Error() string {
	if s <= 0 && int(-s) < len(statusText) {
		return statusText[-s]
	}
	return "papi status " + strconv.Itoa(int(s))
}

// Err returns nil for OK and s otherwise.
func (s Status) Err() error {
	if s == OK {
		return nil
	}
	return s
}
