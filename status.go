// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwcounter

import (
	"errors"

	"golang.org/x/hwcounter/internal/gate"
	"golang.org/x/hwcounter/internal/papi"
)

var (
	// ErrInUse reports that the counters stayed in use until the
	// acquisition Policy gave up.
	ErrInUse = gate.ErrInUse
	// ErrClosed reports use of a CounterSet after Close.
	ErrClosed = errors.New("counter set closed")
	// ErrNoEvents reports a Start with no events.
	ErrNoEvents = errors.New("no events to count")
)

// A Status is a failure reported by the native counter facility.
// Errors returned by this package wrap a Status when the facility
// refused an operation:
//
//	if errors.Is(err, hwcounter.ENOEVNT) { ... }
type Status = papi.Status

// Native status codes.
const (
	OK         = papi.OK
	EINVAL     = papi.EINVAL
	ENOMEM     = papi.ENOMEM
	ESYS       = papi.ESYS
	ECMP       = papi.ECMP
	ECLOST     = papi.ECLOST
	EBUG       = papi.EBUG
	ENOEVNT    = papi.ENOEVNT
	ECNFLCT    = papi.ECNFLCT
	ENOTRUN    = papi.ENOTRUN
	EISRUN     = papi.EISRUN
	ENOEVST    = papi.ENOEVST
	ENOTPRESET = papi.ENOTPRESET
	ENOCNTR    = papi.ENOCNTR
	EMISC      = papi.EMISC
	EPERM      = papi.EPERM
	ENOINIT    = papi.ENOINIT
	ENOCMP     = papi.ENOCMP
	ENOSUPP    = papi.ENOSUPP
	ENOIMPL    = papi.ENOIMPL
	EBUF       = papi.EBUF
	EINVALDOM  = papi.EINVALDOM
	EATTR      = papi.EATTR
	ECOUNT     = papi.ECOUNT
	ECOMBO     = papi.ECOMBO
)
