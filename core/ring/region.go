// File: core/ring/region.go
// Author: momentics <momentics@gmail.com>
//
// Backing region contract for the mirrored ring. A region exposes a byte
// slice of twice its logical size where the second half aliases the first,
// so any in-range span of up to the logical size is contiguous.

package ring

import (
	"fmt"
	"os"

	"github.com/momentics/hioload-sdr/api"
)

// region is an ownership-exclusive mirrored byte range.
type region interface {
	// bytes returns the full 2x view. Offsets [size, 2*size) alias
	// offsets [0, size).
	bytes() []byte

	// size returns the logical byte size.
	size() int

	// mirror replicates the span [off, off+n) into the aliased half.
	// A no-op for regions mirrored by the virtual memory system.
	mirror(off, n int)

	// release unmaps or drops the region. Never fails recoverably;
	// platform release errors are logged.
	release() error
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// checkMapSize validates a byte size for the double-map scheme: a power of
// two of at least one virtual memory page.
func checkMapSize(byteSize int) error {
	if !isPowerOfTwo(byteSize) {
		return fmt.Errorf("%w: size %d is not a power of two", api.ErrBadCapacity, byteSize)
	}
	if page := os.Getpagesize(); byteSize < page {
		return fmt.Errorf("%w: size %d below page size %d", api.ErrBadCapacity, byteSize, page)
	}
	return nil
}

// heapRegion is the portable fallback: a plain 2x slice kept coherent by
// copying every produced span into the opposite half.
type heapRegion struct {
	buf     []byte
	logical int
}

func newHeapRegion(byteSize int) *heapRegion {
	return &heapRegion{
		buf:     make([]byte, 2*byteSize),
		logical: byteSize,
	}
}

func (r *heapRegion) bytes() []byte { return r.buf }
func (r *heapRegion) size() int     { return r.logical }

func (r *heapRegion) mirror(off, n int) {
	end := off + n
	if end <= r.logical {
		copy(r.buf[off+r.logical:end+r.logical], r.buf[off:end])
		return
	}
	// Span wrapped into the high half: low part mirrors up, spill mirrors
	// back to the front.
	copy(r.buf[off+r.logical:], r.buf[off:r.logical])
	copy(r.buf[:end-r.logical], r.buf[r.logical:end])
}

func (r *heapRegion) release() error {
	r.buf = nil
	return nil
}
