// File: cmd/sdrcap/sink.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/momentics/hioload-sdr/api"
)

// sampleSink consumes converted sample bytes from the capture loop.
type sampleSink interface {
	Write(p []byte) error
	Close() error
}

// newSink picks WAV framing for .wav outputs and raw bytes otherwise.
// WAV needs integer PCM, so it is limited to the CS16 format with I and
// Q mapped to the two channels.
func newSink(path string, format api.Format, rate uint32) (sampleSink, error) {
	if !isWAV(path) {
		return newRawSink(path)
	}
	if format != api.FormatCS16 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "WAV output requires the CS16 format").
			WithContext("format", string(format))
	}
	return newWAVSink(path, rate)
}

type rawSink struct {
	f *os.File
	w *bufio.Writer
}

func newRawSink(path string) (*rawSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return &rawSink{f: f, w: bufio.NewWriterSize(f, 1<<16)}, nil
}

func (s *rawSink) Write(p []byte) error {
	_, err := s.w.Write(p)
	return err
}

func (s *rawSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// wavSink stores IQ pairs as a two-channel 16-bit WAV file.
type wavSink struct {
	f    *os.File
	enc  *wav.Encoder
	rate int
}

func newWAVSink(path string, rate uint32) (*wavSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return &wavSink{
		f:    f,
		enc:  wav.NewEncoder(f, int(rate), 16, 2, 1),
		rate: int(rate),
	}, nil
}

func (s *wavSink) Write(p []byte) error {
	samples := make([]int, 0, len(p)/2)
	for i := 0; i+1 < len(p); i += 2 {
		samples = append(samples, int(int16(binary.LittleEndian.Uint16(p[i:]))))
	}
	return s.enc.Write(&audio.IntBuffer{
		Data:   samples,
		Format: &audio.Format{SampleRate: s.rate, NumChannels: 2},
	})
}

func (s *wavSink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
