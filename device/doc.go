// Package device
// Author: momentics <momentics@gmail.com>
//
// Frontend driver registry and device-side plumbing for hioload-sdr.
// Drivers self-register in their init; applications enumerate and open
// frontends through free-form key/value arguments ("driver", "serial").
package device
