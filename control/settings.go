// control/settings.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe receiver settings store with snapshot semantics and change
// listeners. The store is the single source of truth for tuner state;
// Apply pushes a snapshot to a frontend in hardware programming order.

package control

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-sdr/api"
)

// Settings is one immutable snapshot of receiver configuration.
type Settings struct {
	Frequency      uint64
	Samplerate     uint32
	AGC            bool
	LNA            bool
	AttenuationDB  float64
	CalibrationPPB int32
	IQBalance      complex128
	DSP            bool
}

// DefaultSettings mirrors the hardware power-on state.
func DefaultSettings() Settings {
	return Settings{
		Frequency: 7_100_000, // 40m band, a sane HF default
		AGC:       true,
		DSP:       true,
		IQBalance: complex(1, 0),
	}
}

// SettingStore holds the current Settings and notifies listeners on change.
type SettingStore struct {
	mu        sync.RWMutex
	current   Settings
	listeners []func(Settings)
}

// NewSettingStore initializes a store with the given initial snapshot.
func NewSettingStore(initial Settings) *SettingStore {
	return &SettingStore{current: initial}
}

// Snapshot returns a copy of the current settings.
func (st *SettingStore) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Update mutates the settings under the lock and dispatches the new
// snapshot to all listeners.
func (st *SettingStore) Update(mutate func(*Settings)) {
	st.mu.Lock()
	mutate(&st.current)
	snap := st.current
	listeners := st.listeners
	st.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// OnChange registers a listener invoked with each new snapshot.
func (st *SettingStore) OnChange(fn func(Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.listeners = append(st.listeners, fn)
}

// Apply programs a frontend with the snapshot. Order follows the hardware
// bring-up sequence: rate and DSP first, gain chain, corrections, then
// tuning last.
func (st *SettingStore) Apply(fe api.Frontend) error {
	s := st.Snapshot()

	if s.Samplerate != 0 {
		if err := fe.SetSamplerate(s.Samplerate); err != nil {
			return fmt.Errorf("apply samplerate %d: %w", s.Samplerate, err)
		}
	}
	if err := fe.SetDSP(s.DSP); err != nil {
		return fmt.Errorf("apply dsp: %w", err)
	}
	if err := fe.SetAGC(s.AGC); err != nil {
		return fmt.Errorf("apply agc: %w", err)
	}
	if err := fe.SetLNA(s.LNA); err != nil {
		return fmt.Errorf("apply lna: %w", err)
	}
	if !s.AGC {
		if err := fe.SetAttenuation(s.AttenuationDB); err != nil {
			return fmt.Errorf("apply attenuation %.1f dB: %w", s.AttenuationDB, err)
		}
	}
	if err := fe.SetCalibration(s.CalibrationPPB); err != nil {
		return fmt.Errorf("apply calibration %d ppb: %w", s.CalibrationPPB, err)
	}
	if err := fe.SetIQBalance(s.IQBalance); err != nil {
		return fmt.Errorf("apply iq balance: %w", err)
	}
	if err := fe.SetFrequency(s.Frequency); err != nil {
		return fmt.Errorf("apply frequency %d: %w", s.Frequency, err)
	}
	return nil
}
