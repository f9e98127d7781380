// File: cmd/sdrcap/devices.go
// Author: momentics <momentics@gmail.com>

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/hioload-sdr/api"
	"github.com/momentics/hioload-sdr/device"
	"github.com/momentics/hioload-sdr/stream"

	// Register built-in drivers.
	_ "github.com/momentics/hioload-sdr/device/fake"
)

// deviceArgs collects the enumeration filters shared by every command.
func deviceArgs() api.Args {
	args := api.Args{}
	if v := viper.GetString("driver"); v != "" {
		args["driver"] = v
	}
	if v := viper.GetString("serial"); v != "" {
		args["serial"] = v
	}
	return args
}

func devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List frontends visible to the registered drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			found := device.Enumerate(deviceArgs())
			if len(found) == 0 {
				return fmt.Errorf("no devices found (drivers: %v)", device.Drivers())
			}
			for _, info := range found {
				fmt.Printf("driver=%s serial=%s label=%q\n", info.Driver, info.Serial, info.Label)
			}
			return nil
		},
	}
}

func formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported output sample formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range stream.Formats() {
				fmt.Printf("%s (%d bytes/sample)\n", f, f.SampleBytes())
			}
			return nil
		},
	}
}
