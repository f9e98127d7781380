// File: cmd/sdrcap/capture.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/control"
	"github.com/momentics/hioload-sdr/device"
	"github.com/momentics/hioload-sdr/internal/concurrency"
	"github.com/momentics/hioload-sdr/stream"
)

type captureOptions struct {
	Frequency     uint64
	Samplerate    uint32
	Format        string
	Duration      time.Duration
	Output        string
	AGC           bool
	LNA           bool
	AttenuationDB float64
	Calibration   int32
	CPU           int
	MetricsListen string
	Debug         bool
}

func captureCommand() *cobra.Command {
	opts := captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record IQ samples to a WAV or raw file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.Frequency, "frequency", 7_100_000, "center frequency in Hz")
	cmd.Flags().Uint32Var(&opts.Samplerate, "samplerate", 768_000, "sample rate in Hz")
	cmd.Flags().StringVar(&opts.Format, "format", string(api.FormatCS16), "output sample format")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 5*time.Second, "capture length, 0 runs until interrupted")
	cmd.Flags().StringVar(&opts.Output, "output", "capture.wav", "output file, .wav selects WAV framing")
	cmd.Flags().BoolVar(&opts.AGC, "agc", true, "enable hardware AGC")
	cmd.Flags().BoolVar(&opts.LNA, "lna", false, "enable the LNA")
	cmd.Flags().Float64Var(&opts.AttenuationDB, "attenuation", 0, "manual attenuation in dB, used when AGC is off")
	cmd.Flags().Int32Var(&opts.Calibration, "calibration", 0, "frequency correction in ppb")
	cmd.Flags().IntVar(&opts.CPU, "cpu", -1, "pin the capture loop to a CPU core, -1 disables")
	cmd.Flags().StringVar(&opts.MetricsListen, "metrics-listen", "", "address for the Prometheus endpoint, empty disables")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "dump debug probes after the capture")

	return cmd
}

func runCapture(parent context.Context, opts captureOptions) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	fe, err := device.Make(deviceArgs())
	if err != nil {
		return fmt.Errorf("opening frontend: %w", err)
	}
	defer fe.Close()

	store := control.NewSettingStore(control.DefaultSettings())
	store.Update(func(s *control.Settings) {
		s.Frequency = opts.Frequency
		s.Samplerate = opts.Samplerate
		s.AGC = opts.AGC
		s.LNA = opts.LNA
		s.AttenuationDB = opts.AttenuationDB
		s.CalibrationPPB = opts.Calibration
	})
	if err := store.Apply(fe); err != nil {
		return fmt.Errorf("applying settings: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := control.NewStreamMetrics(reg, fe.Info().Driver)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	probes := control.NewDebugProbes()

	s, err := stream.Setup(fe, stream.Config{
		Format:  api.Format(opts.Format),
		Metrics: metrics,
		Probes:  probes,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	sink, err := newSink(opts.Output, s.Format(), fe.Samplerate())
	if err != nil {
		return err
	}

	if err := s.Activate(); err != nil {
		sink.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.MetricsListen != "" {
		g.Go(func() error { return serveMetrics(gctx, opts.MetricsListen, reg) })
	}
	g.Go(func() error { return captureLoop(gctx, s, sink, opts.CPU) })

	err = g.Wait()
	if derr := s.Deactivate(); derr != nil && err == nil {
		err = derr
	}
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}

	if opts.Debug {
		for name, value := range probes.DumpState() {
			log.Printf("probe %s = %v", name, value)
		}
	}

	log.Printf("captured %d samples (%s of stream time) to %s",
		s.Ticks(), time.Duration(s.TimeNs()), opts.Output)
	return err
}

// captureLoop drains the stream into the sink until the context ends.
func captureLoop(ctx context.Context, s *stream.Stream, sink sampleSink, cpu int) error {
	undo, err := concurrency.PinCurrentThread(cpu)
	if err != nil {
		return fmt.Errorf("pinning capture loop: %w", err)
	}
	defer undo()

	buf := make([]byte, s.MTU()*s.Format().SampleBytes())
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := s.Read(buf, s.MTU(), 100*time.Millisecond)
		if errors.Is(err, api.ErrTimeout) {
			continue
		}
		if err != nil {
			return err
		}
		if err := sink.Write(buf[:n*s.Format().SampleBytes()]); err != nil {
			return err
		}
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics endpoint: %w", err)
		}
		return nil
	}
}

func isWAV(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".wav")
}
