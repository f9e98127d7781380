// File: internal/concurrency/pin_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !linux

package concurrency

// platformSetAffinity is a no-op where affinity syscalls are unavailable.
func platformSetAffinity(cpuID int) error { return nil }

// platformClearAffinity is a no-op where affinity syscalls are unavailable.
func platformClearAffinity() error { return nil }
