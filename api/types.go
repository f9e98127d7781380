// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

// StreamState enumerates the state of an RX stream.
type StreamState int

const (
	StreamUnknown StreamState = iota
	StreamIdle
	StreamActive
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamActive:
		return "active"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}
