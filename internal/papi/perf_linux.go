// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papi

import (
	"encoding/binary"
	"errors"
	"os"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/mod/semver"
	"golang.org/x/sys/unix"
)

func init() {
	newPerf = func() Backend { return new(perfBackend) }
}

// perfBackend counts the calling thread's events with perf_event_open(2).
// All events of one Start are opened as a single group whose leader is
// fds[0], so they are scheduled onto the PMU together and read atomically.
type perfBackend struct {
	mu  sync.Mutex
	fds []int  // nil when stopped
	buf []byte // PERF_FORMAT_GROUP read buffer

	countersOnce sync.Once
	counters     int
}

// minKernel is the first release with perf_event_open.
const minKernel = "v2.6.31"

const paranoidFile = "/proc/sys/kernel/perf_event_paranoid"

func (p *perfBackend) IsInitialized() bool {
	if _, err := os.Stat(paranoidFile); err != nil {
		return false
	}
	v := kernelVersion(kernelRelease())
	return v != "" && semver.Compare(v, minKernel) >= 0
}

func (p *perfBackend) NumCounters() int {
	p.countersOnce.Do(func() {
		if p.IsInitialized() {
			p.counters = probeCounters(maxProbe)
		}
	})
	return p.counters
}

func (p *perfBackend) Start(codes []int32) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fds != nil {
		return EISRUN
	}
	if len(codes) == 0 {
		return EINVAL
	}
	fds, st := openGroup(codes, unix.PERF_FORMAT_GROUP)
	if st != OK {
		return st
	}
	if st := groupIoctl(fds[0], unix.PERF_EVENT_IOC_RESET); st != OK {
		closeAll(fds)
		return st
	}
	if st := groupIoctl(fds[0], unix.PERF_EVENT_IOC_ENABLE); st != OK {
		closeAll(fds)
		return st
	}
	p.fds = fds
	p.buf = make([]byte, 8*(len(fds)+1))
	return OK
}

func (p *perfBackend) Stop(values []int64) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fds == nil {
		return ENOTRUN
	}
	st := groupIoctl(p.fds[0], unix.PERF_EVENT_IOC_DISABLE)
	if st == OK {
		st = p.sample(values, false)
	}
	closeAll(p.fds)
	p.fds, p.buf = nil, nil
	return st
}

func (p *perfBackend) Read(values []int64) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fds == nil {
		return ENOTRUN
	}
	return p.sample(values, false)
}

func (p *perfBackend) Accum(values []int64) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fds == nil {
		return ENOTRUN
	}
	if st := p.sample(values, true); st != OK {
		return st
	}
	return groupIoctl(p.fds[0], unix.PERF_EVENT_IOC_RESET)
}

// sample reads the group counts into values, adding to them if add is set.
func (p *perfBackend) sample(values []int64, add bool) Status {
	if len(values) != len(p.fds) {
		return EINVAL
	}
	n, err := unix.Read(p.fds[0], p.buf)
	if err != nil {
		return errnoStatus(err)
	}
	if n != len(p.buf) {
		return ESYS
	}
	if nr := binary.NativeEndian.Uint64(p.buf); nr != uint64(len(values)) {
		return EBUG
	}
	for i := range values {
		v := int64(binary.NativeEndian.Uint64(p.buf[8*(i+1):]))
		if add {
			values[i] += v
		} else {
			values[i] = v
		}
	}
	return OK
}

// openGroup opens one event per code, the first as a disabled group leader.
// Counting is restricted to user space so that the default
// perf_event_paranoid level of 2 permits it.
func openGroup(codes []int32, format uint64) ([]int, Status) {
	fds := make([]int, 0, len(codes))
	leader := -1
	for _, code := range codes {
		attr, ok := perfAttr(code)
		if !ok {
			closeAll(fds)
			return nil, ENOEVNT
		}
		attr.Read_format = format
		attr.Bits = unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv
		if leader == -1 {
			attr.Bits |= unix.PerfBitDisabled
		}
		fd, err := unix.PerfEventOpen(&attr, 0, -1, leader, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			closeAll(fds)
			return nil, errnoStatus(err)
		}
		if leader == -1 {
			leader = fd
		}
		fds = append(fds, fd)
	}
	return fds, OK
}

func groupIoctl(fd int, req uint) Status {
	if err := unix.IoctlSetInt(fd, req, unix.PERF_IOC_FLAG_GROUP); err != nil {
		return errnoStatus(err)
	}
	return OK
}

func closeAll(fds []int) {
	// Close followers before the leader.
	for i := len(fds) - 1; i >= 0; i-- {
		unix.Close(fds[i])
	}
}

// errnoStatus maps a perf_event_open or ioctl failure to a Status.
func errnoStatus(err error) Status {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return ESYS
	}
	switch errno {
	case unix.ENOENT, unix.EOPNOTSUPP:
		return ENOEVNT
	case unix.EACCES, unix.EPERM:
		return EPERM
	case unix.ENODEV, unix.ENOSYS:
		return ENOCNTR
	case unix.ENOSPC, unix.EBUSY:
		return ECNFLCT
	case unix.EMFILE, unix.ENOMEM:
		return ENOMEM
	case unix.EINVAL:
		return EINVAL
	}
	return ESYS
}

// maxProbe bounds the number of counters NumCounters looks for.
const maxProbe = 16

// probeCounters reports how many instruction counters one group can keep
// on the PMU at once, up to limit.
func probeCounters(limit int) int {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for k := 1; k <= limit; k++ {
		if !schedulable(k) {
			return k - 1
		}
	}
	return limit
}

var sink int

// schedulable reports whether a group of k counters ever ran.
// A group that does not fit on the PMU has time_running == 0.
func schedulable(k int) bool {
	codes := make([]int32, k)
	for i := range codes {
		codes[i] = presetTotIns
	}
	const format = unix.PERF_FORMAT_GROUP | unix.PERF_FORMAT_TOTAL_TIME_ENABLED | unix.PERF_FORMAT_TOTAL_TIME_RUNNING
	fds, st := openGroup(codes, format)
	if st != OK {
		return false
	}
	defer closeAll(fds)
	if groupIoctl(fds[0], unix.PERF_EVENT_IOC_ENABLE) != OK {
		return false
	}
	for i := 0; i < 1e5; i++ {
		sink += i
	}
	groupIoctl(fds[0], unix.PERF_EVENT_IOC_DISABLE)

	// nr, time_enabled, time_running, values[nr]
	buf := make([]byte, 8*(3+k))
	if n, err := unix.Read(fds[0], buf); err != nil || n != len(buf) {
		return false
	}
	return binary.NativeEndian.Uint64(buf[16:]) > 0
}

func kernelRelease() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}

// kernelVersion converts a kernel release such as "6.8.0-45-generic"
// to a semantic version such as "v6.8.0". It returns "" if the release
// does not start with a version number.
func kernelVersion(release string) string {
	end := strings.IndexFunc(release, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if end >= 0 {
		release = release[:end]
	}
	parts := strings.Split(strings.Trim(release, "."), ".")
	if len(parts) > 3 {
		parts = parts[:3] // 2.6.32.27
	}
	v := "v" + strings.Join(parts, ".")
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// attrSize is the perf_event_attr size this package was built against.
var attrSize = uint32(unsafe.Sizeof(unix.PerfEventAttr{}))
