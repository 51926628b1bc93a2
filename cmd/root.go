package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/OriD-19/fpsmeter/internal/logging"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fpsmeter",
	Short: "Measure and display how often frames are drawn.",
	Long: `
		fpsmeter samples the frame rate of a render loop once per period and shows it
		as a small bar sparkline with a numeric readout.

		Use "run" to drive the meter from a headless ticker or from a remote render
		loop over a websocket, and "window" to measure a live fyne window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.SetLogLevel(logLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log verbosity: debug, info, warn or error.")
}
