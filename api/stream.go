// Package api
// Author: momentics <momentics@gmail.com>
//
// RX stream contract: decouples the frontend's burst callback from the
// application read loop through the sample ring.

package api

import "time"

// RXStream is a single-channel receive stream with format conversion.
type RXStream interface {
	// Activate clears buffered samples, resets stream time and starts
	// the frontend RX thread.
	Activate() error

	// Deactivate stops the frontend and wakes any blocked reader.
	Deactivate() error

	// Read converts up to maxElems samples (bounded by MTU) into dst and
	// returns the element count. Blocks up to timeout for enough samples;
	// returns ErrTimeout when the deadline passes first. dst must hold
	// maxElems * Format().SampleBytes() bytes.
	Read(dst []byte, maxElems int, timeout time.Duration) (int, error)

	// MTU returns the preferred read granularity in samples.
	MTU() int

	// Format returns the negotiated output format.
	Format() Format

	// Ticks returns the running sample count since the last Activate.
	Ticks() int64

	// TimeNs returns stream time in nanoseconds derived from Ticks at
	// the frontend sample rate.
	TimeNs() int64

	// State reports the current lifecycle state.
	State() StreamState

	// Close deactivates if needed and releases the ring.
	Close() error
}
