package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/config"
	"github.com/OriD-19/fpsmeter/internal/host"
	"github.com/OriD-19/fpsmeter/internal/logging"
	"github.com/OriD-19/fpsmeter/internal/meter"
	"github.com/OriD-19/fpsmeter/internal/output"
	"github.com/OriD-19/fpsmeter/internal/overlay"
)

func NewCmdRun() *cobra.Command {
	flags := NewRunFlags()
	cmd := &cobra.Command{
		Use:                   "run",
		DisableFlagsInUseLine: true,
		Short:                 runShort,
		Long:                  runLong,
		Example:               runExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd)
			if err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	flags.AddFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(NewCmdRun())
}

var (
	runLong = `
		Run a meter without a display and report the frame rate of its frame source.

		The frame source is either a local ticker at a nominal refresh rate, optionally
		stalling every few frames to simulate long tasks, or a websocket endpoint where
		every inbound message counts as one frame.

		One line is printed per elapsed period, followed by summary statistics of the
		rate (mean, standard deviation, min, max, p50/p90/p99) when the run ends. Use
		--json for a machine-readable summary and --png to save the final overlay.`

	runExample = `
		# Measure a 60Hz ticker for ten seconds
		fpsmeter run --duration 10s

		# Stall for 50ms every 30 frames and report the 95th percentile frame time as a rate
		fpsmeter run --stall-every 30 --stall 50ms --slow-percentile 95 --duration 10s

		# Count frames sent by a remote render loop
		fpsmeter run --source websocket --url ws://localhost:8080/frames

		# JSON summary written to a file, overlay snapshot next to it
		fpsmeter run --duration 30s --json -o summary.json --png overlay.png`

	runShort = "Measure a headless or remote frame source."
)

const (
	SourceTicker    = "ticker"
	SourceWebsocket = "websocket"
)

// Flags will be converted to options, which are taken when measuring and outputting the stats data
type RunFlags struct {
	Meter *MeterFlags

	// Frame source
	Source     string
	URL        string
	Refresh    float64
	StallEvery int
	Stall      time.Duration

	// Measurement window
	Duration time.Duration

	// Output selection
	JSON   bool
	Pretty bool
	Output string
	PNG    string
}

func NewRunFlags() *RunFlags {
	return &RunFlags{
		Meter:   NewMeterFlags(),
		Source:  SourceTicker,
		Refresh: host.DefaultRefresh,
	}
}

// AddFlags registers flags for a cli
func (flags *RunFlags) AddFlags(cmd *cobra.Command) {
	flags.Meter.AddFlags(cmd)

	cmd.Flags().StringVar(&flags.Source, "source", flags.Source,
		"Frame source: ticker or websocket.")
	cmd.Flags().StringVar(&flags.URL, "url", flags.URL,
		"Websocket URL to receive frames from (with --source websocket).")
	cmd.Flags().Float64Var(&flags.Refresh, "refresh", flags.Refresh,
		"Ticker refresh rate in Hz.")
	cmd.Flags().IntVar(&flags.StallEvery, "stall-every", flags.StallEvery,
		"Stall the ticker every N frames. 0 disables stalls.")
	cmd.Flags().DurationVar(&flags.Stall, "stall", flags.Stall,
		"How long each ticker stall lasts (e.g. 50ms).")

	cmd.Flags().DurationVar(&flags.Duration, "duration", flags.Duration,
		"How long to measure (e.g. 10s). 0 runs until interrupted.")

	cmd.Flags().BoolVar(&flags.JSON, "json", flags.JSON,
		"If true, output the summary as JSON")
	cmd.Flags().BoolVar(&flags.Pretty, "pretty", flags.Pretty,
		"If true, pretty-print JSON output (only applies with --json).")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", flags.Output,
		"Write output to a file instead of stdout.")
	cmd.Flags().StringVar(&flags.PNG, "png", flags.PNG,
		"Save the overlay as it looks at the end of the run to this PNG file.")
}

func (flags *RunFlags) ToOptions(cmd *cobra.Command) (*RunOptions, error) {
	meterOpts, err := flags.Meter.ToOptions(cmd)
	if err != nil {
		return nil, err
	}

	switch flags.Source {
	case SourceTicker:
		if flags.Refresh <= 0 {
			return nil, fmt.Errorf("--refresh must be positive")
		}
		if flags.StallEvery < 0 || flags.Stall < 0 {
			return nil, fmt.Errorf("--stall-every and --stall must not be negative")
		}
	case SourceWebsocket:
		if flags.URL == "" {
			return nil, fmt.Errorf("--url is required with --source websocket")
		}
	default:
		return nil, fmt.Errorf("unknown --source %q (want ticker or websocket)", flags.Source)
	}
	if flags.Duration < 0 {
		return nil, fmt.Errorf("--duration must not be negative")
	}

	o := &RunOptions{
		Meter:    meterOpts,
		Source:   flags.Source,
		URL:      flags.URL,
		Ticker:   host.TickerHost{Refresh: flags.Refresh, StallEvery: flags.StallEvery, Stall: flags.Stall},
		Duration: flags.Duration,
		Pretty:   flags.Pretty,
		PNGPath:  flags.PNG,
	}

	// Determine output format
	if flags.JSON {
		o.Format = OutputJSON
	} else {
		o.Format = OutputText
	}

	// Handle output destination
	if flags.Output != "" {
		// Will be opened in Run()
		o.OutputPath = flags.Output
	}

	return o, nil
}

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

type RunOptions struct {
	Meter config.Options

	// Frame source
	Source string
	URL    string
	Ticker host.TickerHost

	// Measurement window; 0 => until interrupted
	Duration time.Duration

	// Output selection
	Format     OutputFormat
	Pretty     bool
	Out        io.Writer
	OutputPath string
	PNGPath    string
}

func (o *RunOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if o.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Duration)
		defer cancel()
	}

	if err := o.setupOutput(); err != nil {
		return fmt.Errorf("setup output: %w", err)
	}
	defer o.closeOutput()

	printer, err := output.ForFormat(string(o.Format), o.Pretty)
	if err != nil {
		return err
	}

	surface := image.NewRGBA(image.Rect(0, 0, o.Meter.Width, o.Meter.Height))
	ov, err := overlay.New(o.Meter, surface)
	if err != nil {
		return err
	}
	m, err := meter.New(o.Meter, nil, surface, ov)
	if err != nil {
		return err
	}

	frames, err := o.startSource(ctx, m.ID())
	if err != nil {
		return err
	}

	periods := make(chan *v1.PeriodMetrics, 16)
	m.Subscribe(periods)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Run(ctx, frames)
		close(periods)
	}()

	if o.Format == OutputText {
		fmt.Fprintf(o.Out, "Measuring %s frames with meter %s (%s)...\n", o.Source, m.ID(), m.Aggregator().Strategy().Name())
		if o.Duration > 0 {
			fmt.Fprintf(o.Out, "Duration: %v\n", o.Duration)
		}
		fmt.Fprintln(o.Out)
	}
	for pm := range periods {
		if o.Format != OutputText {
			continue
		}
		if err := printer.OutputParam(pm, o.Out); err != nil {
			return fmt.Errorf("output period: %w", err)
		}
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if o.Format == OutputText {
		fmt.Fprintln(o.Out)
	}
	if err := printer.OutputParam(m.Summary(), o.Out); err != nil {
		return fmt.Errorf("output statistics: %w", err)
	}

	if o.PNGPath != "" {
		if err := overlay.WritePNG(o.PNGPath, ov.Compose()); err != nil {
			return err
		}
		logging.Infof("[meter %s] overlay saved to %s", m.ID(), o.PNGPath)
	}
	return nil
}

// startSource returns the frame channel for the configured source.
func (o *RunOptions) startSource(ctx context.Context, meterID string) (<-chan struct{}, error) {
	if o.Source != SourceWebsocket {
		return o.Ticker.Frames(ctx), nil
	}

	src := host.NewWebsocketSource(o.URL, meterID)
	if err := src.Start(ctx); err != nil {
		return nil, fmt.Errorf("connect frame source: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-src.Err():
				logging.Warnf("[meter %s] frame source: %v", meterID, err)
			}
		}
	}()
	return src.Frames(), nil
}

func (o *RunOptions) setupOutput() error {
	if o.Out != nil {
		return nil
	}
	if o.OutputPath != "" {
		f, err := os.Create(o.OutputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		o.Out = f
	} else {
		o.Out = os.Stdout
	}

	return nil
}

func (o *RunOptions) closeOutput() {
	if f, ok := o.Out.(*os.File); ok && f != os.Stdout {
		f.Close()
	}
}
