// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// benchmark_ring_test.go — Throughput benchmarks for the sample ring
// hot path and the blocking handoff.
package tests

import (
	"testing"
	"time"

	"github.com/momentics/hioload-sdr/core/ring"
)

func BenchmarkRingProduceConsume(b *testing.B) {
	rb, err := ring.New[complex64](4096)
	if err != nil {
		b.Fatal(err)
	}
	defer rb.Close()

	const batch = 256
	b.SetBytes(batch * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rb.Produce(batch)
		rb.Consume(batch)
	}
}

func BenchmarkRingHandoff(b *testing.B) {
	rb, err := ring.New[complex64](4096)
	if err != nil {
		b.Fatal(err)
	}
	defer rb.Close()

	const batch = 256
	done := make(chan struct{})
	go func() {
		defer close(done)
		var total int
		for total < b.N*batch {
			n := rb.ReadAtLeast(batch, 10*time.Second, func(view []complex64) int {
				return len(view)
			})
			if n <= 0 {
				return
			}
			total += n
		}
	}()

	src := make([]complex64, batch)
	b.SetBytes(batch * 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rb.WriteAtLeast(batch, 10*time.Second, func(view []complex64) int {
			return copy(view, src)
		})
	}
	<-done
}
