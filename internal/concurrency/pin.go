// File: internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "runtime"

// PinCurrentThread locks the calling goroutine to its OS thread and
// binds that thread to the given CPU core. A negative cpuID locks the
// thread without restricting the CPU set. The returned function undoes
// both steps.
func PinCurrentThread(cpuID int) (undo func(), err error) {
	runtime.LockOSThread()
	if cpuID < 0 {
		return runtime.UnlockOSThread, nil
	}
	if err := platformSetAffinity(cpuID); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		_ = platformClearAffinity()
		runtime.UnlockOSThread()
	}, nil
}
