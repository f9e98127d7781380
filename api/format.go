// Package api
// Author: momentics <momentics@gmail.com>
//
// Sample format identifiers and conversion contracts.
// The native wire format of supported frontends is CF32 (interleaved
// complex float32 IQ); converters produce the negotiated output format.

package api

// Format identifies an IQ sample memory layout.
type Format string

const (
	FormatCF32 Format = "CF32" // complex float32, native
	FormatCF64 Format = "CF64" // complex float64
	FormatCS16 Format = "CS16" // complex int16, little-endian
	FormatCS8  Format = "CS8"  // complex int8
	FormatCU8  Format = "CU8"  // complex uint8, offset binary
)

// SampleBytes returns the byte size of one complex sample, or 0 for an
// unknown format.
func (f Format) SampleBytes() int {
	switch f {
	case FormatCF32:
		return 8
	case FormatCF64:
		return 16
	case FormatCS16:
		return 4
	case FormatCS8, FormatCU8:
		return 2
	default:
		return 0
	}
}

// FullScale returns the full-scale amplitude of the format's components.
func (f Format) FullScale() float64 {
	switch f {
	case FormatCF32, FormatCF64:
		return 1.0
	case FormatCS16:
		return 32767.0
	case FormatCS8, FormatCU8:
		return 127.0
	default:
		return 0
	}
}

// ConverterFunc converts src samples from the native CF32 layout into dst,
// scaled by scale, and returns the number of samples converted. dst must
// hold at least len(src) * SampleBytes() of the target format.
type ConverterFunc func(src []complex64, dst []byte, scale float64) int
