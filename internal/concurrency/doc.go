// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread placement helpers for latency-sensitive sample loops. The RX
// thread that services the frontend callback can be locked to one OS
// thread and pinned to a CPU core so scheduler migration does not add
// jitter between bursts. Pinning is best effort and a no-op on
// platforms without affinity syscalls.
package concurrency
