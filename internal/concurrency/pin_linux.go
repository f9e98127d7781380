// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build linux

package concurrency

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// platformSetAffinity restricts the current thread to a single CPU core.
func platformSetAffinity(cpuID int) error {
	if cpuID >= runtime.NumCPU() {
		return fmt.Errorf("cpu %d out of range, host has %d", cpuID, runtime.NumCPU())
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// platformClearAffinity restores the full CPU set for the current thread.
func platformClearAffinity() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	return unix.SchedSetaffinity(0, &set)
}
