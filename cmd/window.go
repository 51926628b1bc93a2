package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/OriD-19/fpsmeter/internal/desktop"
	"github.com/OriD-19/fpsmeter/internal/output"
)

func NewCmdWindow() *cobra.Command {
	flags := NewMeterFlags()
	var (
		duration time.Duration
		json     bool
	)
	cmd := &cobra.Command{
		Use:                   "window",
		DisableFlagsInUseLine: true,
		Short:                 "Open a window and measure how fast it repaints.",
		Long: `
		Open a window with a small animated scene and the overlay attached to it.

		The meter is stepped from the window's animation loop, so the readout is the
		frame rate the toolkit actually achieves. Containers available to --container
		are "root" (the whole window) and "stage" (the animated half). The summary is
		printed when the window is closed.`,
		Example: `
		# Overlay in the top-right corner of the animated stage
		fpsmeter window --container stage --position top-right

		# Track the 99th percentile frame time for a minute
		fpsmeter window --slow-percentile 99 --duration 1m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			summary, err := desktop.Run(ctx, o)
			if err != nil {
				return err
			}
			format := string(OutputText)
			if json {
				format = string(OutputJSON)
			}
			printer, err := output.ForFormat(format, true)
			if err != nil {
				return err
			}
			return printer.OutputParam(summary, cmd.OutOrStdout())
		},
	}

	flags.AddFlags(cmd)
	cmd.Flags().DurationVar(&duration, "duration", 0,
		"Close the window after this long. 0 keeps it open until closed.")
	cmd.Flags().BoolVar(&json, "json", false,
		"If true, print the summary as JSON")

	return cmd
}

func init() {
	rootCmd.AddCommand(NewCmdWindow())
}
