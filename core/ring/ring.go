// File: core/ring/ring.go
// Author: momentics <momentics@gmail.com>
//
// RingBuffer is a bounded SPSC circular buffer over a mirrored region.
// Position counters are monotonically increasing and wrap their integer
// width; only the masked low bits address memory. The fast path performs
// no blocking operations; the slow path parks on a one-slot signal
// channel re-armed on every check, which gives condition-variable
// semantics with a timed wait.

package ring

import (
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/momentics/hioload-sdr/api"
)

// Ensure compile-time interface compliance.
var _ api.SampleRing[complex64] = (*RingBuffer[complex64])(nil)

// RingBuffer hands fixed-size sample elements from one producer to one
// consumer. T must be a fixed-size, pointer-free type whose size is a
// power of two (complex64, int16 pairs, etc.).
type RingBuffer[T any] struct {
	writePos atomic.Uint64
	_        [56]byte // Padding for hot/cold separation
	readPos  atomic.Uint64
	_        [56]byte // Padding

	// Cached position snapshots. The producer owns the first pair and
	// the consumer the second, but Clear stores all four from whatever
	// goroutine stops the stream, so they must be atomics: a blocked
	// caller reads them on its pre-park check concurrently with Clear.
	writePosCached atomic.Uint64
	freeCached     atomic.Uint64

	readPosCached atomic.Uint64
	availCached   atomic.Uint64

	// One-slot wakeup channels: producer signals readable, consumer
	// signals writable. A pending token survives the race between a
	// failed condition check and the park, so wakeups cannot be missed.
	readable chan struct{}
	writable chan struct{}

	reg      region
	elems    []T // mirrored 2x view of reg
	capacity uint64
	mask     uint64
	elemSize int
}

// New constructs a ring with the given element capacity, which must be a
// power of two. Byte sizes of at least one page use the virtual-memory
// double map; smaller rings fall back to the software-mirrored region.
func New[T any](capacity int) (*RingBuffer[T], error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if !isPowerOfTwo(elemSize) {
		return nil, fmt.Errorf("%w: element size %d is not a power of two", api.ErrBadCapacity, elemSize)
	}
	if !isPowerOfTwo(capacity) {
		return nil, fmt.Errorf("%w: capacity %d is not a power of two", api.ErrBadCapacity, capacity)
	}

	byteSize := capacity * elemSize
	var (
		reg region
		err error
	)
	if checkMapSize(byteSize) == nil {
		reg, err = mapMirror(byteSize)
		if err != nil {
			return nil, err
		}
	} else {
		reg = newHeapRegion(byteSize)
	}

	buf := reg.bytes()
	r := &RingBuffer[T]{
		reg:      reg,
		elems:    unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), 2*capacity),
		capacity: uint64(capacity),
		mask:     uint64(capacity) - 1,
		elemSize: elemSize,
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
	r.freeCached.Store(uint64(capacity))
	return r, nil
}

// Capacity returns the fixed element capacity.
func (r *RingBuffer[T]) Capacity() int { return int(r.capacity) }

// SizeBytes returns the logical byte size of the ring.
func (r *RingBuffer[T]) SizeBytes() int { return int(r.capacity) * r.elemSize }

// Available returns the readable element count. Consumer only. The atomic
// write position is re-read only when the cached snapshot cannot satisfy
// min, keeping the hot path free of cross-core traffic.
func (r *RingBuffer[T]) Available(min int) int {
	if r.availCached.Load() < uint64(min) {
		avail := r.writePos.Load() - r.readPosCached.Load()
		if avail > r.capacity {
			// Snapshot torn by a concurrent Clear; report empty and
			// re-check after the wakeup token arrives.
			avail = 0
		}
		r.availCached.Store(avail)
	}
	return int(r.availCached.Load())
}

// ApproxAvailable estimates the readable count from the shared counters
// alone, without touching either side's cached state. Safe to call from
// any goroutine; intended for observability, not for transfer decisions.
func (r *RingBuffer[T]) ApproxAvailable() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Free returns the writable element count. Producer only.
func (r *RingBuffer[T]) Free(min int) int {
	if r.freeCached.Load() < uint64(min) {
		free := r.capacity - (r.writePosCached.Load() - r.readPos.Load())
		if free > r.capacity {
			// Snapshot torn by a concurrent Clear; report full and
			// re-check after the wakeup token arrives.
			free = 0
		}
		r.freeCached.Store(free)
	}
	return int(r.freeCached.Load())
}

// Produce publishes n written elements. Producer only. The mirror copy
// (where the region needs one) happens before the position store so a
// consumer observing the new position sees complete data.
func (r *RingBuffer[T]) Produce(n int) {
	wp := r.writePosCached.Load()
	start := int(wp&r.mask) * r.elemSize
	r.reg.mirror(start, n*r.elemSize)

	r.freeCached.Store(r.freeCached.Load() - uint64(n))
	r.writePosCached.Store(wp + uint64(n)) // intentional wraparound arithmetic
	r.writePos.Add(uint64(n))
	signal(r.readable)
}

// Consume reclaims n read elements. Consumer only.
func (r *RingBuffer[T]) Consume(n int) {
	r.availCached.Store(r.availCached.Load() - uint64(n))
	r.readPosCached.Store(r.readPosCached.Load() + uint64(n)) // intentional wraparound arithmetic
	r.readPos.Add(uint64(n))
	signal(r.writable)
}

// ReadSlice returns the contiguous readable view at the current read
// position. Consumer only; valid until the next Consume or Clear.
func (r *RingBuffer[T]) ReadSlice() []T {
	return r.view(r.readPosCached.Load(), int(r.availCached.Load()))
}

// WriteSlice returns the contiguous writable view at the current write
// position. Producer only; valid until the next Produce or Clear.
func (r *RingBuffer[T]) WriteSlice() []T {
	return r.view(r.writePosCached.Load(), int(r.freeCached.Load()))
}

// ReadAtLeast waits until at least elems elements are readable, passes the
// readable view to fn once, consumes what fn reports and returns it.
// Returns api.TimedOut if the timeout elapses first; fn is then never
// invoked and no position moves.
func (r *RingBuffer[T]) ReadAtLeast(elems int, timeout time.Duration, fn api.Transfer[T]) int {
	if avail := r.Available(elems); avail >= elems {
		consumed := fn(r.view(r.readPosCached.Load(), avail))
		r.Consume(consumed)
		return consumed
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-r.readable:
			if avail := r.Available(elems); avail >= elems {
				consumed := fn(r.view(r.readPosCached.Load(), avail))
				r.Consume(consumed)
				return consumed
			}
		case <-timer.C:
			return api.TimedOut
		}
	}
}

// WriteAtLeast is the producer mirror image of ReadAtLeast, guarding free
// space and producing what fn reports.
func (r *RingBuffer[T]) WriteAtLeast(elems int, timeout time.Duration, fn api.Transfer[T]) int {
	if free := r.Free(elems); free >= elems {
		produced := fn(r.view(r.writePosCached.Load(), free))
		r.Produce(produced)
		return produced
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-r.writable:
			if free := r.Free(elems); free >= elems {
				produced := fn(r.view(r.writePosCached.Load(), free))
				r.Produce(produced)
				return produced
			}
		case <-timer.C:
			return api.TimedOut
		}
	}
}

// Clear resets both positions to zero and wakes both sides so blocked
// callers re-evaluate against the reset state. Must not race with an
// in-flight Produce/Consume; intended for stream stop/restart, when the
// producer and consumer are parked or quiescent.
func (r *RingBuffer[T]) Clear() {
	r.readPos.Store(0)
	r.writePos.Store(0)
	r.readPosCached.Store(0)
	r.writePosCached.Store(0)
	r.availCached.Store(0)
	r.freeCached.Store(r.capacity)

	signal(r.readable)
	signal(r.writable)
}

// Close releases the backing region. The ring must not be used after.
func (r *RingBuffer[T]) Close() error {
	r.elems = nil
	return r.reg.release()
}

// view returns a contiguous slice of n elements starting at the masked
// position. n never exceeds capacity, so the span stays inside the
// mirrored 2x range.
func (r *RingBuffer[T]) view(pos uint64, n int) []T {
	start := pos & r.mask
	return r.elems[start : start+uint64(n)]
}

// signal posts a wakeup token without blocking; a token already pending
// carries the same information.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
