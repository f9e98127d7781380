// File: stream/stream_test.go
// Author: momentics <momentics@gmail.com>

package stream

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/control"
	"github.com/momentics/hioload-sdr/device"
	"github.com/momentics/hioload-sdr/device/fake"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openFake(t *testing.T) api.Frontend {
	t.Helper()
	fe, err := device.Make(api.Args{"driver": fake.DriverName, "block": "256"})
	require.NoError(t, err)
	return fe
}

func TestSetupRejectsUnknownFormat(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	_, err := Setup(fe, Config{Format: api.Format("CS12")})
	require.ErrorIs(t, err, api.ErrBadFormat)
}

func TestSetupDefaultsToNativeFormat(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, api.FormatCF32, s.Format())
	assert.Equal(t, 256, s.MTU())
	assert.Equal(t, api.StreamIdle, s.State())
}

func TestReadDeliversSamples(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Activate())
	assert.Equal(t, api.StreamActive, s.State())

	dst := make([]byte, s.MTU()*s.Format().SampleBytes())
	n, err := s.Read(dst, s.MTU(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, s.MTU(), n)
	assert.Greater(t, s.Ticks(), int64(0))
	assert.Greater(t, s.TimeNs(), int64(0))

	require.NoError(t, s.Deactivate())
	assert.Equal(t, api.StreamIdle, s.State())
}

func TestReadConvertsToCS16(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{Format: api.FormatCS16})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Activate())

	dst := make([]byte, s.MTU()*s.Format().SampleBytes())
	n, err := s.Read(dst, s.MTU(), time.Second)
	require.NoError(t, err)
	require.Equal(t, s.MTU(), n)

	// The fake carrier peaks at half scale, so at least one I component
	// must be well away from zero after the scale to int16.
	var peak int16
	for i := 0; i < n*4; i += 4 {
		v := int16(uint16(dst[i]) | uint16(dst[i+1])<<8)
		if v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, int16(8000))
}

func TestReadTimesOutWithoutProducer(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	dst := make([]byte, s.MTU()*s.Format().SampleBytes())
	start := time.Now()
	_, err = s.Read(dst, s.MTU(), 40*time.Millisecond)
	require.ErrorIs(t, err, api.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestReadValidatesArguments(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Read(nil, 0, time.Millisecond)
	assert.Error(t, err)

	short := make([]byte, 4)
	_, err = s.Read(short, s.MTU(), time.Millisecond)
	assert.Error(t, err)
}

func TestDoubleActivate(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Activate())
	require.ErrorIs(t, s.Activate(), api.ErrStreamActive)
	require.NoError(t, s.Deactivate())
	require.NoError(t, s.Deactivate())
}

func TestActivateResetsStreamTime(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Activate())
	dst := make([]byte, s.MTU()*s.Format().SampleBytes())
	_, err = s.Read(dst, s.MTU(), time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Deactivate())

	require.NoError(t, s.Activate())
	assert.Equal(t, int64(0), s.Ticks())
	require.NoError(t, s.Deactivate())
}

func TestProbeLifecycle(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	probes := control.NewDebugProbes()
	s, err := Setup(fe, Config{Probes: probes})
	require.NoError(t, err)

	state := probes.DumpState()
	assert.Contains(t, state, "stream.state")
	assert.Contains(t, state, "ring.fill")
	assert.Contains(t, state, "ring.capacity")
	assert.Equal(t, "idle", state["stream.state"])

	require.NoError(t, s.Close())
	assert.Empty(t, probes.DumpState())
}

func TestMetricsCountConsumedSamples(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	m, err := control.NewStreamMetrics(prometheus.NewRegistry(), fake.DriverName)
	require.NoError(t, err)

	s, err := Setup(fe, Config{Metrics: m})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Activate())
	dst := make([]byte, s.MTU()*s.Format().SampleBytes())
	n, err := s.Read(dst, s.MTU(), time.Second)
	require.NoError(t, err)
	require.Equal(t, s.MTU(), n)
	require.NoError(t, s.Deactivate())
}

func TestCloseIsIdempotent(t *testing.T) {
	fe := openFake(t)
	defer fe.Close()

	s, err := Setup(fe, Config{})
	require.NoError(t, err)
	require.NoError(t, s.Activate())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, api.StreamClosed, s.State())
	require.ErrorIs(t, s.Activate(), api.ErrClosed)
}
