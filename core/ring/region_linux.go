//go:build linux

// File: core/ring/region_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux mirrored region: a memfd mapped twice, back to back, so the
// circular range is linear for any access of up to the logical size. The
// wrap branch is paid once here at construction instead of on every copy.

package ring

import (
	"fmt"
	"log"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRegion is a double-mapped memfd.
type mmapRegion struct {
	base    unsafe.Pointer
	buf     []byte
	logical int
}

// mapMirror reserves 2*byteSize of address space and maps the same memfd
// into both halves. byteSize must satisfy checkMapSize.
func mapMirror(byteSize int) (region, error) {
	if err := checkMapSize(byteSize); err != nil {
		return nil, err
	}

	fd, err := unix.MemfdCreate("hioload-sdr-ring", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	// The fd is only needed to establish the mappings.
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(byteSize)); err != nil {
		return nil, fmt.Errorf("ftruncate memfd to %d: %w", byteSize, err)
	}

	// Reserve a contiguous 2x window first, then pin both halves onto it.
	base, err := unix.MmapPtr(-1, 0, nil, uintptr(2*byteSize),
		unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap reserve %d: %w", 2*byteSize, err)
	}

	if _, err := unix.MmapPtr(fd, 0, base, uintptr(byteSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED); err != nil {
		_ = unix.MunmapPtr(base, uintptr(2*byteSize))
		return nil, fmt.Errorf("mmap low half: %w", err)
	}

	hi := unsafe.Add(base, byteSize)
	if _, err := unix.MmapPtr(fd, 0, hi, uintptr(byteSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED); err != nil {
		_ = unix.MunmapPtr(base, uintptr(2*byteSize))
		return nil, fmt.Errorf("mmap high half: %w", err)
	}

	return &mmapRegion{
		base:    base,
		buf:     unsafe.Slice((*byte)(base), 2*byteSize),
		logical: byteSize,
	}, nil
}

func (r *mmapRegion) bytes() []byte { return r.buf }
func (r *mmapRegion) size() int     { return r.logical }

// mirror is a no-op: the second mapping aliases the first.
func (r *mmapRegion) mirror(off, n int) {}

func (r *mmapRegion) release() error {
	if r.base == nil {
		return nil
	}
	if err := unix.MunmapPtr(r.base, uintptr(2*r.logical)); err != nil {
		// Teardown path; nothing the caller can do about it.
		log.Printf("ring: munmap failed: %v", err)
	}
	r.base = nil
	r.buf = nil
	return nil
}
