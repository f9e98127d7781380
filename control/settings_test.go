package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/control"
)

// recordingFrontend captures the order of programming calls.
type recordingFrontend struct {
	api.Frontend // panics on anything not overridden
	calls        []string
	rate         uint32
	freq         uint64
	agc          bool
}

func (r *recordingFrontend) SetSamplerate(rate uint32) error {
	r.calls = append(r.calls, "samplerate")
	r.rate = rate
	return nil
}
func (r *recordingFrontend) SetDSP(bool) error {
	r.calls = append(r.calls, "dsp")
	return nil
}
func (r *recordingFrontend) SetAGC(enabled bool) error {
	r.calls = append(r.calls, "agc")
	r.agc = enabled
	return nil
}
func (r *recordingFrontend) SetLNA(bool) error {
	r.calls = append(r.calls, "lna")
	return nil
}
func (r *recordingFrontend) SetAttenuation(float64) error {
	r.calls = append(r.calls, "attenuation")
	return nil
}
func (r *recordingFrontend) SetCalibration(int32) error {
	r.calls = append(r.calls, "calibration")
	return nil
}
func (r *recordingFrontend) SetIQBalance(complex128) error {
	r.calls = append(r.calls, "iqbalance")
	return nil
}
func (r *recordingFrontend) SetFrequency(hz uint64) error {
	r.calls = append(r.calls, "frequency")
	r.freq = hz
	return nil
}

func TestSnapshotIsolation(t *testing.T) {
	st := control.NewSettingStore(control.DefaultSettings())

	snap := st.Snapshot()
	snap.Frequency = 0 // must not leak back into the store

	assert.Equal(t, control.DefaultSettings().Frequency, st.Snapshot().Frequency)
}

func TestUpdateNotifiesListeners(t *testing.T) {
	st := control.NewSettingStore(control.DefaultSettings())

	var seen []uint64
	st.OnChange(func(s control.Settings) { seen = append(seen, s.Frequency) })

	st.Update(func(s *control.Settings) { s.Frequency = 14_074_000 })
	st.Update(func(s *control.Settings) { s.Frequency = 10_136_000 })

	require.Equal(t, []uint64{14_074_000, 10_136_000}, seen)
}

func TestApplyProgramsTuningLast(t *testing.T) {
	st := control.NewSettingStore(control.Settings{
		Frequency:  7_074_000,
		Samplerate: 768_000,
		AGC:        true,
		DSP:        true,
		IQBalance:  complex(1, 0),
	})

	fe := &recordingFrontend{}
	require.NoError(t, st.Apply(fe))

	require.NotEmpty(t, fe.calls)
	assert.Equal(t, "samplerate", fe.calls[0])
	assert.Equal(t, "frequency", fe.calls[len(fe.calls)-1])
	assert.NotContains(t, fe.calls, "attenuation", "attenuator untouched while AGC on")
	assert.Equal(t, uint32(768_000), fe.rate)
	assert.Equal(t, uint64(7_074_000), fe.freq)
}

func TestApplySetsAttenuationWithoutAGC(t *testing.T) {
	st := control.NewSettingStore(control.Settings{
		Frequency:     7_074_000,
		Samplerate:    768_000,
		AttenuationDB: 12,
	})

	fe := &recordingFrontend{}
	require.NoError(t, st.Apply(fe))
	assert.Contains(t, fe.calls, "attenuation")
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	dp.RegisterProbe("ring.available", func() any { return 42 })

	v, ok := dp.Probe("ring.available")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	state := dp.DumpState()
	assert.Equal(t, 42, state["ring.available"])

	dp.RemoveProbe("ring.available")
	_, ok = dp.Probe("ring.available")
	assert.False(t, ok)
}
