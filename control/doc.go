// Package control
// Author: momentics <momentics@gmail.com>
//
// Receiver settings store, Prometheus stream instrumentation and debug
// probes for hioload-sdr. See settings.go, metrics.go, debug.go.
package control
