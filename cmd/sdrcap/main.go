// File: cmd/sdrcap/main.go
// Author: momentics <momentics@gmail.com>
//
// sdrcap is a small capture tool: it opens a frontend through the driver
// registry, applies the tuning flags, and records IQ samples to a WAV or
// raw file. It doubles as a smoke test for the whole RX path.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("sdrcap: %v", err)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sdrcap",
		Short:         "Capture IQ samples from an SDR frontend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("driver", "", "frontend driver name (empty selects the only registered driver)")
	root.PersistentFlags().String("serial", "", "device serial to match during enumeration")

	root.AddCommand(devicesCommand(), formatsCommand(), captureCommand())

	viper.SetEnvPrefix("SDRCAP")
	viper.AutomaticEnv()
	cobra.OnInitialize(func() {
		if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
			log.Printf("sdrcap: binding flags: %v", err)
			os.Exit(2)
		}
	})

	return root
}
