package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OriD-19/fpsmeter/internal/config"
)

// MeterFlags are the meter options settable from the command line. They are
// laid over the config file, if any, and then over the defaults.
type MeterFlags struct {
	ConfigPath string

	ID        string
	Position  string
	Container string
	Color     string
	Style     string
	CSS       string

	Period         float64
	Max            float64
	SlowPercentile float64
	Values         []string

	Width  int
	Height int
}

func NewMeterFlags() *MeterFlags {
	d := config.Defaults()
	return &MeterFlags{
		Position: d.Position,
		Color:    d.Color,
		Period:   d.Period,
		Max:      d.Max,
		Width:    d.Width,
		Height:   d.Height,
	}
}

// AddFlags registers flags for a cli
func (flags *MeterFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.ConfigPath, "config", flags.ConfigPath,
		"YAML file with meter options. Flags given explicitly override it.")

	cmd.Flags().StringVar(&flags.ID, "id", flags.ID,
		"Meter identifier used in logs and records (default: random UUID).")
	cmd.Flags().StringVar(&flags.Position, "position", flags.Position,
		"Corner to pin the overlay to: top-left, top-right, bottom-right or bottom-left.")
	cmd.Flags().StringVar(&flags.Container, "container", flags.Container,
		"Name of the container to attach the overlay to (default: root).")
	cmd.Flags().StringVar(&flags.Color, "color", flags.Color,
		"Foreground color: #rgb, #rrggbb, rgb(), rgba() or a basic color name.")
	cmd.Flags().StringVar(&flags.Style, "style", flags.Style,
		`Style declarations, e.g. "padding: 4; opacity: .2".`)
	cmd.Flags().StringVar(&flags.CSS, "css", flags.CSS,
		"Style declarations that take precedence over --style.")

	cmd.Flags().Float64Var(&flags.Period, "period", flags.Period,
		"Aggregation period in milliseconds.")
	cmd.Flags().Float64Var(&flags.Max, "max", flags.Max,
		"Frame rate that fills the sparkline (100%).")
	cmd.Flags().Float64Var(&flags.SlowPercentile, "slow-percentile", flags.SlowPercentile,
		"Report the rate implied by this percentile of frame times instead of the frame count. 0 disables.")
	cmd.Flags().StringSliceVar(&flags.Values, "values", flags.Values,
		"Initial history as fractions of max; leave an entry empty for an unset slot (e.g. 0.5,,0.6).")

	cmd.Flags().IntVar(&flags.Width, "width", flags.Width,
		"Sparkline width in pixels; also the number of periods kept.")
	cmd.Flags().IntVar(&flags.Height, "height", flags.Height,
		"Sparkline height in pixels.")
}

// ToOptions resolves the final meter options. Only flags set on the command
// line override values from --config.
func (flags *MeterFlags) ToOptions(cmd *cobra.Command) (config.Options, error) {
	o := config.Defaults()
	if flags.ConfigPath != "" {
		loaded, err := config.Load(flags.ConfigPath)
		if err != nil {
			return o, err
		}
		o = loaded
	}

	changed := cmd.Flags().Changed
	if changed("id") {
		o.ID = flags.ID
	}
	if changed("position") {
		o.Position = flags.Position
	}
	if changed("container") {
		o.Container = flags.Container
	}
	if changed("color") {
		o.Color = flags.Color
	}
	if changed("style") {
		o.Style = config.ParseStyle(flags.Style)
	}
	if changed("css") {
		o.CSS = config.ParseStyle(flags.CSS)
	}
	if changed("period") {
		o.Period = flags.Period
	}
	if changed("max") {
		o.Max = flags.Max
	}
	if changed("slow-percentile") {
		o.SlowPercentile = flags.SlowPercentile
	}
	if changed("values") {
		values, err := parseValues(flags.Values)
		if err != nil {
			return o, err
		}
		o.Values = values
	}
	if changed("width") {
		o.Width = flags.Width
	}
	if changed("height") {
		o.Height = flags.Height
	}

	if strings.TrimSpace(o.ID) == "" {
		o.ID = config.Defaults().ID
	}
	return o, o.Validate()
}

func parseValues(raw []string) ([]*float64, error) {
	values := make([]*float64, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || s == "null" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: --values[%d] %q is not a number", config.ErrInvalidConfig, i, s)
		}
		values[i] = &v
	}
	return values, nil
}
