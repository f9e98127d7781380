package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/device"
)

func stubDriver(name, serial string) device.Driver {
	return device.Driver{
		Name: name,
		Enumerate: func(args api.Args) []api.DeviceInfo {
			if want := args["serial"]; want != "" && want != serial {
				return nil
			}
			return []api.DeviceInfo{{Driver: name, Serial: serial}}
		},
		Make: func(args api.Args) (api.Frontend, error) {
			return nil, api.ErrNotSupported
		},
	}
}

func TestRegisterRejectsIncompleteDriver(t *testing.T) {
	err := device.Register(device.Driver{Name: "broken"})
	require.Error(t, err)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	require.NoError(t, device.Register(stubDriver("dup-test", "A")))
	err := device.Register(stubDriver("dup-test", "B"))
	require.ErrorIs(t, err, api.ErrAlreadyExists)
}

func TestEnumerateFiltersByDriverAndSerial(t *testing.T) {
	require.NoError(t, device.Register(stubDriver("enum-a", "SER-A")))
	require.NoError(t, device.Register(stubDriver("enum-b", "SER-B")))

	all := device.Enumerate(api.Args{})
	serials := make(map[string]bool)
	for _, info := range all {
		serials[info.Serial] = true
	}
	assert.True(t, serials["SER-A"])
	assert.True(t, serials["SER-B"])

	only := device.Enumerate(api.Args{"driver": "enum-a"})
	require.Len(t, only, 1)
	assert.Equal(t, "SER-A", only[0].Serial)

	bySerial := device.Enumerate(api.Args{"serial": "SER-B"})
	require.Len(t, bySerial, 1)
	assert.Equal(t, "enum-b", bySerial[0].Driver)

	assert.Empty(t, device.Enumerate(api.Args{"driver": "no-such"}))
}

func TestMakeUnknownDriver(t *testing.T) {
	_, err := device.Make(api.Args{"driver": "no-such-driver"})
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestDriversSorted(t *testing.T) {
	require.NoError(t, device.Register(stubDriver("zz-last", "Z")))
	require.NoError(t, device.Register(stubDriver("aa-first", "A")))

	names := device.Drivers()
	require.GreaterOrEqual(t, len(names), 2)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}
