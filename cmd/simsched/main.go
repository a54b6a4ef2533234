package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simsched",
	Short: "Run time-dilated event scheduling scenarios",
	Long: `simsched runs scheduling scenarios on a simulation clock.

A scenario file describes the clock (time dilation, relative start) and
the events to fire. The scheduler delivers each firing as a
notification, optionally recording it into SQLite and serving a
monitoring API.

Examples:
  # Run a scenario
  simsched run --scenario demo.yaml

  # Run for at most a minute with the monitor dashboard open
  simsched run --scenario demo.yaml --duration 1m --open`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
