// Package ring
// Author: momentics <momentics@gmail.com>
//
// Mirrored single-producer/single-consumer sample ring for hioload-sdr.
// Implements bounded blocking handoff between an RX callback thread and an
// application read loop with a lock-free fast path and zero-copy transfer.
// See ring.go, region.go and region_linux.go for implementation details.
package ring
