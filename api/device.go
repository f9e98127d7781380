// Package api
// Author: momentics <momentics@gmail.com>
//
// RX frontend contract: the hardware-facing collaborator that programs
// tuner registers and delivers sample bursts from its own RX thread.

package api

// Args carries free-form key/value device arguments such as "serial".
type Args map[string]string

// DeviceInfo describes one enumerable RX frontend.
type DeviceInfo struct {
	Driver string
	Serial string
	Label  string
}

// TransferFunc receives one burst of native CF32 samples from the RX
// thread. The slice is borrowed and must not be retained after return.
type TransferFunc func(samples []complex64)

// Frontend is an RX-only tuner/digitizer. Setting setters are safe to
// call while streaming; implementations defer register programming to a
// context where the hardware can take it.
type Frontend interface {
	// Info returns static identification for this frontend.
	Info() DeviceInfo

	// Samplerates lists the supported sample rates in Hz, highest first.
	Samplerates() []uint32

	// Samplerate returns the configured sample rate in Hz.
	Samplerate() uint32

	// SetSamplerate selects one of the supported rates.
	SetSamplerate(rate uint32) error

	// Frequency returns the tuned center frequency in Hz.
	Frequency() uint64

	// SetFrequency tunes the center frequency.
	SetFrequency(hz uint64) error

	// SetAGC enables or disables hardware automatic gain control.
	SetAGC(enabled bool) error

	// AGC reports whether hardware AGC is enabled.
	AGC() bool

	// SetLNA switches the low-noise preamplifier on or off.
	SetLNA(enabled bool) error

	// SetAttenuation programs the input attenuator, in dB steps of 6
	// within [0, 48]. Ignored while AGC is enabled.
	SetAttenuation(db float64) error

	// SetCalibration applies a frequency correction in parts per billion.
	SetCalibration(ppb int32) error

	// SetIQBalance applies a complex IQ balance correction.
	SetIQBalance(balance complex128) error

	// SetDSP enables or disables the frontend's built-in IQ correction.
	SetDSP(enabled bool) error

	// OutputBlockSize returns the fixed burst length in samples (MTU).
	OutputBlockSize() int

	// Start begins streaming; fn is invoked from the RX thread once per
	// burst until Stop. Only one stream may be active.
	Start(fn TransferFunc) error

	// Stop ends streaming and joins the RX thread.
	Stop() error

	// Close releases the device handle. Stops streaming if active.
	Close() error
}

// FrontendFactory opens a concrete frontend from device arguments.
type FrontendFactory func(args Args) (Frontend, error)
