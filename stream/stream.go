// File: stream/stream.go
// Author: momentics <momentics@gmail.com>
//
// RX stream: wires a frontend's burst callback to the application read
// loop through the mirrored sample ring, converting out of the native
// CF32 format inside the consumer transfer. The stream owns stream time
// (ticks) and the drop policy: a burst that cannot be buffered within the
// write timeout is dropped and counted, never blocks the RX thread past
// the deadline.

package stream

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/control"
	"github.com/momentics/hioload-sdr/core/convert"
	"github.com/momentics/hioload-sdr/core/ring"
)

// DefaultWriteTimeout bounds how long the RX thread may wait for ring
// space before dropping a burst.
const DefaultWriteTimeout = 500 * time.Millisecond

// Config tunes stream construction. The zero value is usable.
type Config struct {
	// Format selects the output sample format; empty means native CF32.
	Format api.Format

	// RingCapacity overrides the ring size in elements; 0 derives the
	// smallest power of two holding at least eight frontend bursts.
	RingCapacity int

	// WriteTimeout bounds the producer slow path; 0 means the default.
	WriteTimeout time.Duration

	// Metrics receives drop/timeout accounting; nil disables.
	Metrics *control.StreamMetrics

	// Probes receives ring fill and stream state probes; nil disables.
	Probes *control.DebugProbes
}

// Ensure compile-time interface compliance.
var _ api.RXStream = (*Stream)(nil)

// Stream is the single-channel RX stream implementation.
type Stream struct {
	fe     api.Frontend
	rb     *ring.RingBuffer[complex64]
	conv   api.ConverterFunc
	format api.Format
	mtu    int

	writeTimeout time.Duration
	metrics      *control.StreamMetrics
	probes       *control.DebugProbes

	rate  atomic.Uint32
	ticks atomic.Int64
	state atomic.Int32
}

// Setup negotiates the output format and sizes the ring for the
// frontend's burst length. The frontend is not started.
func Setup(fe api.Frontend, cfg Config) (*Stream, error) {
	format := cfg.Format
	if format == "" {
		format = convert.Native
	}
	conv, err := convert.Lookup(format)
	if err != nil {
		return nil, err
	}

	mtu := fe.OutputBlockSize()
	if mtu <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "frontend reports no block size").
			WithContext("driver", fe.Info().Driver)
	}

	capacity := cfg.RingCapacity
	if capacity == 0 {
		capacity = nextPowerOfTwo(8 * mtu)
	}
	rb, err := ring.New[complex64](capacity)
	if err != nil {
		return nil, fmt.Errorf("sizing ring for mtu %d: %w", mtu, err)
	}

	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = DefaultWriteTimeout
	}

	s := &Stream{
		fe:           fe,
		rb:           rb,
		conv:         conv,
		format:       format,
		mtu:          mtu,
		writeTimeout: timeout,
		metrics:      cfg.Metrics,
		probes:       cfg.Probes,
	}
	s.rate.Store(fe.Samplerate())
	s.state.Store(int32(api.StreamIdle))

	if s.probes != nil {
		s.probes.RegisterProbe("stream.state", func() any { return s.State().String() })
		s.probes.RegisterProbe("stream.ticks", func() any { return s.Ticks() })
		s.probes.RegisterProbe("ring.fill", func() any { return rb.ApproxAvailable() })
		s.probes.RegisterProbe("ring.capacity", func() any { return rb.Capacity() })
	}
	return s, nil
}

// Formats lists output formats this stream layer can negotiate.
func Formats() []api.Format { return convert.Formats() }

// Activate clears buffered samples, resets stream time and starts the
// frontend RX thread.
func (s *Stream) Activate() error {
	if !s.state.CompareAndSwap(int32(api.StreamIdle), int32(api.StreamActive)) {
		switch api.StreamState(s.state.Load()) {
		case api.StreamActive:
			return api.ErrStreamActive
		default:
			return api.ErrClosed
		}
	}

	s.rb.Clear()
	s.ticks.Store(0)
	s.rate.Store(s.fe.Samplerate())

	if err := s.fe.Start(s.onBurst); err != nil {
		s.state.Store(int32(api.StreamIdle))
		return fmt.Errorf("starting frontend: %w", err)
	}
	return nil
}

// Deactivate stops the frontend and wakes any blocked reader against the
// cleared state.
func (s *Stream) Deactivate() error {
	if !s.state.CompareAndSwap(int32(api.StreamActive), int32(api.StreamIdle)) {
		return nil
	}
	err := s.fe.Stop()
	s.rb.Clear()
	if err != nil {
		return fmt.Errorf("stopping frontend: %w", err)
	}
	return nil
}

// onBurst is the producer side, invoked from the frontend RX thread.
func (s *Stream) onBurst(samples []complex64) {
	n := s.rb.WriteAtLeast(len(samples), s.writeTimeout, func(view []complex64) int {
		return copy(view, samples)
	})

	// Stream time advances with the hardware even when a burst is lost;
	// timestamps must not drift because the consumer stalled.
	s.ticks.Add(int64(len(samples)))

	if n == api.TimedOut {
		s.metrics.ProducerTimeout(len(samples))
		log.Printf("stream: ring full for %v, dropped %d samples", s.writeTimeout, len(samples))
		return
	}
	s.metrics.Produced(n)
}

// Read converts up to maxElems samples (bounded by MTU) into dst.
func (s *Stream) Read(dst []byte, maxElems int, timeout time.Duration) (int, error) {
	want := maxElems
	if want > s.mtu {
		want = s.mtu
	}
	if want <= 0 {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "non-positive element count").
			WithContext("maxElems", maxElems)
	}
	if len(dst) < want*s.format.SampleBytes() {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "destination too small").
			WithContext("need", want*s.format.SampleBytes()).
			WithContext("have", len(dst))
	}

	n := s.rb.ReadAtLeast(want, timeout, func(view []complex64) int {
		return s.conv(view[:want], dst, 1.0)
	})
	if n == api.TimedOut {
		s.metrics.ConsumerTimeout()
		return 0, api.ErrTimeout
	}

	s.metrics.Consumed(n)
	s.metrics.Utilization(s.rb.ApproxAvailable(), s.rb.Capacity())
	return n, nil
}

// MTU returns the preferred read granularity in samples.
func (s *Stream) MTU() int { return s.mtu }

// Format returns the negotiated output format.
func (s *Stream) Format() api.Format { return s.format }

// Ticks returns the running sample count since the last Activate.
func (s *Stream) Ticks() int64 { return s.ticks.Load() }

// TimeNs converts Ticks to nanoseconds at the frontend sample rate.
func (s *Stream) TimeNs() int64 {
	rate := s.rate.Load()
	if rate == 0 {
		return 0
	}
	return int64(float64(s.Ticks()) * float64(time.Second) / float64(rate))
}

// State reports the current lifecycle state.
func (s *Stream) State() api.StreamState {
	return api.StreamState(s.state.Load())
}

// Close deactivates if needed and releases the ring.
func (s *Stream) Close() error {
	_ = s.Deactivate()
	if !s.state.CompareAndSwap(int32(api.StreamIdle), int32(api.StreamClosed)) {
		return nil
	}
	if s.probes != nil {
		s.probes.RemoveProbe("stream.state")
		s.probes.RemoveProbe("stream.ticks")
		s.probes.RemoveProbe("ring.fill")
		s.probes.RemoveProbe("ring.capacity")
	}
	return s.rb.Close()
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
