// File: device/registry.go
// Author: momentics <momentics@gmail.com>
//
// Global frontend driver registry. Mirrors the usual driver-module
// pattern: a driver package registers itself on import, applications
// select by "driver" and "serial" arguments.

package device

import (
	"fmt"
	"sort"
	"sync"

	"github.com/momentics/hioload-sdr/api"
)

// Driver binds a name to enumeration and construction entry points.
type Driver struct {
	Name      string
	Enumerate func(args api.Args) []api.DeviceInfo
	Make      api.FrontendFactory
}

var (
	regMu   sync.RWMutex
	drivers = make(map[string]Driver)
)

// Register adds a driver to the registry. Duplicate names are rejected.
func Register(d Driver) error {
	if d.Name == "" || d.Enumerate == nil || d.Make == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "driver registration incomplete").
			WithContext("name", d.Name)
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := drivers[d.Name]; dup {
		return fmt.Errorf("%w: driver %q", api.ErrAlreadyExists, d.Name)
	}
	drivers[d.Name] = d
	return nil
}

// Drivers lists registered driver names, sorted.
func Drivers() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enumerate lists devices across all drivers, or a single driver when
// args carries a "driver" key. Results are ordered by driver name.
func Enumerate(args api.Args) []api.DeviceInfo {
	regMu.RLock()
	defer regMu.RUnlock()

	var names []string
	if want := args["driver"]; want != "" {
		if _, ok := drivers[want]; ok {
			names = []string{want}
		}
	} else {
		for name := range drivers {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var out []api.DeviceInfo
	for _, name := range names {
		out = append(out, drivers[name].Enumerate(args)...)
	}
	return out
}

// Make opens a frontend. The "driver" argument selects the driver; when
// absent and exactly one driver is registered, that driver is used.
func Make(args api.Args) (api.Frontend, error) {
	regMu.RLock()
	name := args["driver"]
	if name == "" && len(drivers) == 1 {
		for only := range drivers {
			name = only
		}
	}
	d, ok := drivers[name]
	regMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: driver %q", api.ErrNotFound, name)
	}
	return d.Make(args)
}
