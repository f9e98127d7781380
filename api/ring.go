// Package api
// Author: momentics <momentics@gmail.com>
//
// Single-producer/single-consumer sample ring contract with bounded
// blocking handoff between an RX callback thread and a reader thread.

package api

import "time"

// TimedOut is the sentinel returned by ReadAtLeast/WriteAtLeast when the
// requested element count did not become available within the timeout.
// Timeouts are expected control flow in streaming, not errors.
const TimedOut = -1

// Transfer moves elements into or out of a borrowed view of the ring.
// The view is valid only for the duration of the call and must not be
// retained. The return value is the number of elements actually moved;
// it must not exceed len(view).
type Transfer[T any] func(view []T) int

// SampleRing is a bounded circular buffer for fixed-size sample elements.
//
// Exactly one goroutine may act as producer and exactly one as consumer.
// Concurrent misuse is not detected; the lock-free fast path depends on
// the single-writer discipline of each position counter.
type SampleRing[T any] interface {
	// Capacity returns the fixed element capacity (a power of two).
	Capacity() int

	// SizeBytes returns capacity times the element size.
	SizeBytes() int

	// Available returns the element count currently readable. The result
	// is at least min when that many elements are present; a cached
	// snapshot may be returned when it already satisfies min.
	Available(min int) int

	// Free is the writable counterpart of Available.
	Free(min int) int

	// Produce advances the write position by n elements. Producer only.
	Produce(n int)

	// Consume advances the read position by n elements. Consumer only.
	Consume(n int)

	// ReadSlice returns a contiguous view of the readable region.
	// Consumer only; invalidated by the next Consume or Clear.
	ReadSlice() []T

	// WriteSlice returns a contiguous view of the writable region.
	// Producer only; invalidated by the next Produce or Clear.
	WriteSlice() []T

	// ReadAtLeast blocks until at least elems elements are readable, then
	// invokes fn exactly once with the readable view and consumes the
	// count fn reports. Returns the consumed count, or TimedOut if the
	// timeout elapsed first (fn is not invoked, no state changes).
	ReadAtLeast(elems int, timeout time.Duration, fn Transfer[T]) int

	// WriteAtLeast is the mirror image of ReadAtLeast for the producer.
	WriteAtLeast(elems int, timeout time.Duration, fn Transfer[T]) int

	// Clear resets both positions to zero and wakes all blocked callers.
	Clear()

	// Close releases the backing region. The ring must not be used after.
	Close() error
}
