// File: core/convert/convert.go
// Author: momentics <momentics@gmail.com>
//
// Sample format converters from the native CF32 layout. Conversion is
// performed inside the consumer's ring transfer, directly into caller
// storage; converters never allocate.

package convert

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/momentics/hioload-sdr/api"
)

// Native is the source format all converters accept.
const Native = api.FormatCF32

var converters = map[api.Format]api.ConverterFunc{
	api.FormatCF32: cf32ToCF32,
	api.FormatCF64: cf32ToCF64,
	api.FormatCS16: cf32ToCS16,
	api.FormatCS8:  cf32ToCS8,
	api.FormatCU8:  cf32ToCU8,
}

// Formats lists the supported target formats, native first.
func Formats() []api.Format {
	out := []api.Format{Native}
	for f := range converters {
		if f != Native {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the converter producing the given target format.
func Lookup(target api.Format) (api.ConverterFunc, error) {
	fn, ok := converters[target]
	if !ok {
		return nil, fmt.Errorf("%w: no converter CF32 -> %s", api.ErrBadFormat, target)
	}
	return fn, nil
}

func cf32ToCF32(src []complex64, dst []byte, scale float64) int {
	s := float32(scale)
	for i, c := range src {
		binary.LittleEndian.PutUint32(dst[i*8:], math.Float32bits(real(c)*s))
		binary.LittleEndian.PutUint32(dst[i*8+4:], math.Float32bits(imag(c)*s))
	}
	return len(src)
}

func cf32ToCF64(src []complex64, dst []byte, scale float64) int {
	for i, c := range src {
		binary.LittleEndian.PutUint64(dst[i*16:], math.Float64bits(float64(real(c))*scale))
		binary.LittleEndian.PutUint64(dst[i*16+8:], math.Float64bits(float64(imag(c))*scale))
	}
	return len(src)
}

func cf32ToCS16(src []complex64, dst []byte, scale float64) int {
	s := scale * api.FormatCS16.FullScale()
	for i, c := range src {
		binary.LittleEndian.PutUint16(dst[i*4:], uint16(clampS16(float64(real(c))*s)))
		binary.LittleEndian.PutUint16(dst[i*4+2:], uint16(clampS16(float64(imag(c))*s)))
	}
	return len(src)
}

func cf32ToCS8(src []complex64, dst []byte, scale float64) int {
	s := scale * api.FormatCS8.FullScale()
	for i, c := range src {
		dst[i*2] = byte(clampS8(float64(real(c)) * s))
		dst[i*2+1] = byte(clampS8(float64(imag(c)) * s))
	}
	return len(src)
}

func cf32ToCU8(src []complex64, dst []byte, scale float64) int {
	s := scale * api.FormatCU8.FullScale()
	for i, c := range src {
		dst[i*2] = offsetU8(float64(real(c)) * s)
		dst[i*2+1] = offsetU8(float64(imag(c)) * s)
	}
	return len(src)
}

func clampS16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func clampS8(v float64) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}

func offsetU8(v float64) uint8 {
	v += 128
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
