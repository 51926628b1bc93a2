package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every construction-time configuration failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultPeriod = 1000.0 // ms
	DefaultMax    = 100.0
	DefaultWidth  = 32
	DefaultHeight = 16
	DefaultColor  = "white"

	// RootContainer is the mount name used when no container is requested or
	// the requested one does not exist.
	RootContainer = "root"
)

// Options is the construction-time configuration of one overlay.
type Options struct {
	// ID identifies the meter in logs and emitted records.
	ID string `yaml:"id" json:"id"`

	Position  string `yaml:"position" json:"position"`
	Container string `yaml:"container" json:"container"`
	Color     string `yaml:"color" json:"color"`
	Style     Style  `yaml:"style" json:"style,omitempty"`
	CSS       Style  `yaml:"css" json:"css,omitempty"`

	// Aggregation window length in milliseconds.
	Period float64 `yaml:"period" json:"period"`
	// Rate that counts as 100%.
	Max float64 `yaml:"max" json:"max"`
	// Seed for the history; null entries stay unset.
	Values []*float64 `yaml:"values" json:"values,omitempty"`
	// 0 selects the throughput strategy, (0,100] the slow-percentile one.
	SlowPercentile float64 `yaml:"slowPercentile" json:"slowPercentile"`

	// Drawing surface size in pixels. Width is also the history capacity.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Defaults returns the built-in options.
func Defaults() Options {
	return Options{
		ID:       uuid.NewString(),
		Position: BottomLeft.String(),
		Color:    DefaultColor,
		Period:   DefaultPeriod,
		Max:      DefaultMax,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	}
}

// Load reads a YAML file and overlays it on Defaults. The result is validated.
func Load(path string) (Options, error) {
	o := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("read config: %w", err)
	}
	if err := o.UnmarshalBytes(b); err != nil {
		return o, fmt.Errorf("%s: %w", path, err)
	}
	return o, o.Validate()
}

// UnmarshalBytes decodes YAML over the current values. Type mismatches, such as
// a non-numeric period, surface as ErrInvalidConfig.
func (o *Options) UnmarshalBytes(b []byte) error {
	if err := yaml.Unmarshal(b, o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(o.ID) == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Validate checks every field the running loop depends on, so misconfiguration
// fails here instead of inside the frame loop.
func (o Options) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if !finite(o.Period) || o.Period <= 0 {
		bad("period must be a positive number of milliseconds, got %v", o.Period)
	}
	if !finite(o.Max) || o.Max <= 0 {
		bad("max must be a positive rate, got %v", o.Max)
	}
	if !finite(o.SlowPercentile) || o.SlowPercentile < 0 || o.SlowPercentile > 100 {
		bad("slowPercentile must be 0 (off) or within (0,100], got %v", o.SlowPercentile)
	}
	if o.Width <= 0 || o.Height <= 0 {
		bad("surface size must be positive, got %dx%d", o.Width, o.Height)
	}
	for i, v := range o.Values {
		if v != nil && (!finite(*v) || *v < 0) {
			bad("values[%d] must be a non-negative number, got %v", i, *v)
		}
	}
	if _, err := o.Foreground(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := o.MergedStyle().Resolve(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// SlowPercentileMode reports whether the percentile strategy is selected.
func (o Options) SlowPercentileMode() bool { return o.SlowPercentile > 0 }

// ParsedPosition resolves the position option, falling back to bottom-left.
func (o Options) ParsedPosition() Position { return ParsePosition(o.Position) }

// ContainerName resolves the requested mount name; empty means the root.
func (o Options) ContainerName() string {
	if c := strings.TrimSpace(o.Container); c != "" {
		return c
	}
	return RootContainer
}

// Foreground parses the color option. An empty option is the default color.
func (o Options) Foreground() (color.Color, error) {
	if strings.TrimSpace(o.Color) == "" {
		return ParseColor(DefaultColor)
	}
	return ParseColor(o.Color)
}

// MergedStyle lays css over style; css wins on conflicting keys.
func (o Options) MergedStyle() Style {
	return o.Style.Merge(o.CSS)
}

// Label is the caption shown before the value.
func (o Options) Label() string {
	if o.SlowPercentileMode() {
		return "fps " + strconv.FormatFloat(o.SlowPercentile, 'f', -1, 64) + " percentile "
	}
	return "fps "
}

// ParseColor accepts #rgb/#rrggbb, rgb(), rgba() and basic color names.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok && !validHex(hex) {
		return nil, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
	}
	c := drawing.ParseColor(s)
	if c.IsZero() && !strings.EqualFold(s, "transparent") {
		return nil, fmt.Errorf("color %q: unrecognized", s)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func validHex(h string) bool {
	if len(h) != 3 && len(h) != 6 {
		return false
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
