// File: device/fake/frontend.go
// Author: momentics <momentics@gmail.com>
//
// Fake RX frontend for tests, examples and offline development. Delivers
// paced bursts of a synthetic carrier at a configurable offset from the
// tuned frequency, and models the deferred-register behavior of real
// tuners: setters called while streaming are queued and applied by the
// RX loop between bursts.

package fake

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/device"
)

// DriverName identifies this driver in the registry.
const DriverName = "fake"

const (
	defaultSerial = "F00D5EED11223344"
	defaultBlock  = 2048
	minFrequency  = 9_000
	maxFrequency  = 260_000_000
)

var supportedRates = []uint32{768_000, 384_000, 256_000, 192_000}

func init() {
	if err := device.Register(device.Driver{
		Name:      DriverName,
		Enumerate: enumerate,
		Make:      open,
	}); err != nil {
		log.Printf("fake: driver registration failed: %v", err)
	}
}

func enumerate(args api.Args) []api.DeviceInfo {
	if want := args["serial"]; want != "" && want != defaultSerial {
		return nil
	}
	return []api.DeviceInfo{{
		Driver: DriverName,
		Serial: defaultSerial,
		Label:  "Fake RX " + defaultSerial,
	}}
}

func open(args api.Args) (api.Frontend, error) {
	if want := args["serial"]; want != "" && want != defaultSerial {
		return nil, fmt.Errorf("%w: serial %q", api.ErrNotFound, want)
	}

	block := defaultBlock
	if v := args["block"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "bad block argument").
				WithContext("block", v)
		}
		block = n
	}

	tone := 1_000.0 // 1 kHz test carrier by default
	if v := args["tone"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "bad tone argument").
				WithContext("tone", v)
		}
		tone = f
	}

	return &Frontend{
		rate:    supportedRates[0],
		freq:    7_100_000,
		agc:     true,
		dsp:     true,
		iq:      complex(1, 0),
		block:   block,
		toneHz:  tone,
		pending: device.NewCommandQueue(),
	}, nil
}

// Frontend is the fake device instance.
type Frontend struct {
	mu     sync.Mutex
	rate   uint32
	freq   uint64
	agc    bool
	lna    bool
	dsp    bool
	att    float64
	ppb    int32
	iq     complex128
	block  int
	toneHz float64
	phase  float64

	pending *device.CommandQueue
	running bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

var _ api.Frontend = (*Frontend)(nil)

func (f *Frontend) Info() api.DeviceInfo {
	return api.DeviceInfo{
		Driver: DriverName,
		Serial: defaultSerial,
		Label:  "Fake RX " + defaultSerial,
	}
}

func (f *Frontend) Samplerates() []uint32 {
	out := make([]uint32, len(supportedRates))
	copy(out, supportedRates)
	return out
}

func (f *Frontend) Samplerate() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *Frontend) SetSamplerate(rate uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		// Rate changes resize the RX pipeline; not possible mid-stream.
		return api.ErrStreamActive
	}
	for _, r := range supportedRates {
		if r == rate {
			f.rate = rate
			return nil
		}
	}
	return fmt.Errorf("%w: sample rate %d", api.ErrNotSupported, rate)
}

func (f *Frontend) Frequency() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freq
}

func (f *Frontend) SetFrequency(hz uint64) error {
	if hz < minFrequency || hz > maxFrequency {
		return api.NewError(api.ErrCodeInvalidArgument, "frequency out of range").
			WithContext("hz", hz)
	}
	return f.program(func() error {
		f.mu.Lock()
		f.freq = hz
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) SetAGC(enabled bool) error {
	return f.program(func() error {
		f.mu.Lock()
		f.agc = enabled
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) AGC() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.agc
}

func (f *Frontend) SetLNA(enabled bool) error {
	return f.program(func() error {
		f.mu.Lock()
		f.lna = enabled
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) SetAttenuation(db float64) error {
	if db < 0 || db > 48 {
		return api.NewError(api.ErrCodeInvalidArgument, "attenuation out of range").
			WithContext("db", db)
	}
	// Hardware attenuator has 6 dB steps.
	step := math.Round(db/6) * 6
	return f.program(func() error {
		f.mu.Lock()
		f.att = step
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) SetCalibration(ppb int32) error {
	return f.program(func() error {
		f.mu.Lock()
		f.ppb = ppb
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) SetIQBalance(balance complex128) error {
	return f.program(func() error {
		f.mu.Lock()
		f.iq = balance
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) SetDSP(enabled bool) error {
	return f.program(func() error {
		f.mu.Lock()
		f.dsp = enabled
		f.mu.Unlock()
		return nil
	})
}

func (f *Frontend) OutputBlockSize() int { return f.block }

// SetTone moves the synthetic carrier offset. Fake-specific; used by
// tests to make setting changes observable in the sample stream.
func (f *Frontend) SetTone(hz float64) {
	f.mu.Lock()
	f.toneHz = hz
	f.mu.Unlock()
}

// PendingCommands reports queued register writes. Fake-specific.
func (f *Frontend) PendingCommands() int { return f.pending.Len() }

// program runs a register write now, or queues it for the RX loop when
// the stream is live.
func (f *Frontend) program(cmd device.Command) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return api.ErrClosed
	}
	running := f.running
	f.mu.Unlock()

	if running {
		f.pending.Push(cmd)
		return nil
	}
	return cmd()
}

func (f *Frontend) Start(fn api.TransferFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return api.ErrClosed
	}
	if f.running {
		return api.ErrStreamActive
	}
	f.running = true
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.rxLoop(fn, f.stop, f.done)
	return nil
}

func (f *Frontend) Stop() error {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return nil
	}
	stop, done := f.stop, f.done
	f.mu.Unlock()

	close(stop)
	<-done

	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
	return nil
}

func (f *Frontend) Close() error {
	if err := f.Stop(); err != nil {
		return err
	}
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// rxLoop paces bursts at the configured sample rate and applies queued
// register writes between bursts, never inside a transfer.
func (f *Frontend) rxLoop(fn api.TransferFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	f.mu.Lock()
	block := f.block
	rate := f.rate
	f.mu.Unlock()

	burst := make([]complex64, block)
	interval := time.Duration(block) * time.Second / time.Duration(rate)
	if interval <= 0 {
		interval = time.Microsecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := f.pending.Drain(); err != nil {
				log.Printf("fake: deferred register write failed: %v", err)
			}
			f.fill(burst)
			fn(burst)
		}
	}
}

// fill synthesizes one burst of the test carrier at current settings.
func (f *Frontend) fill(burst []complex64) {
	f.mu.Lock()
	omega := 2 * math.Pi * f.toneHz / float64(f.rate)
	amp := 0.5
	if f.lna {
		amp *= 2
	}
	if !f.agc {
		amp *= math.Pow(10, -f.att/20)
	}
	if amp > 1 {
		amp = 1
	}
	phase := f.phase
	for i := range burst {
		s, c := math.Sincos(phase)
		burst[i] = complex(float32(amp*c), float32(amp*s))
		phase += omega
	}
	// Keep phase bounded so precision does not degrade over long runs.
	f.phase = math.Mod(phase, 2*math.Pi)
	f.mu.Unlock()
}
