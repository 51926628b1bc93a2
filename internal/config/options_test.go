package config

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	o := Defaults()
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if o.Period != 1000 || o.Max != 100 {
		t.Fatalf("unexpected defaults period=%v max=%v", o.Period, o.Max)
	}
	if o.SlowPercentileMode() {
		t.Fatal("throughput must be the default strategy")
	}
	if o.ID == "" {
		t.Fatal("expected generated id")
	}
	if o.ContainerName() != RootContainer {
		t.Fatalf("container default = %q", o.ContainerName())
	}
}

func TestValidateRejects(t *testing.T) {
	neg := -1.0
	cases := []struct {
		name string
		mut  func(*Options)
		want string
	}{
		{"zero period", func(o *Options) { o.Period = 0 }, "period"},
		{"nan period", func(o *Options) { o.Period = math.NaN() }, "period"},
		{"negative max", func(o *Options) { o.Max = -5 }, "max"},
		{"inf max", func(o *Options) { o.Max = math.Inf(1) }, "max"},
		{"percentile above 100", func(o *Options) { o.SlowPercentile = 100.5 }, "slowPercentile"},
		{"negative percentile", func(o *Options) { o.SlowPercentile = -1 }, "slowPercentile"},
		{"zero width", func(o *Options) { o.Width = 0 }, "surface size"},
		{"negative seed", func(o *Options) { o.Values = []*float64{nil, &neg} }, "values[1]"},
		{"bad color", func(o *Options) { o.Color = "not-a-color" }, "color"},
		{"short hex", func(o *Options) { o.Color = "#12" }, "color"},
		{"bad opacity", func(o *Options) { o.Style = Style{"opacity": "3"} }, "opacity"},
	}
	for _, c := range cases {
		o := Defaults()
		c.mut(&o)
		err := o.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: error not wrapping ErrInvalidConfig: %v", c.name, err)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: error %q does not mention %q", c.name, err, c.want)
		}
	}
}

func TestPercentileBoundaryAccepted(t *testing.T) {
	o := Defaults()
	o.SlowPercentile = 100
	if err := o.Validate(); err != nil {
		t.Fatalf("100 is a valid percentile: %v", err)
	}
	if got := o.Label(); got != "fps 100 percentile " {
		t.Fatalf("label = %q", got)
	}
	o.SlowPercentile = 99.9
	if got := o.Label(); got != "fps 99.9 percentile " {
		t.Fatalf("label = %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	body := `
position: top-right
color: "#ff8800"
period: 500
max: 60
slowPercentile: 90
values: [0.5, null, 0.75]
style: "padding: 4px; opacity: .2"
css:
  opacity: 0.3
  fontScale: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if o.ParsedPosition() != TopRight || o.Period != 500 || o.Max != 60 || o.SlowPercentile != 90 {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Fatalf("defaults not kept for absent keys: %dx%d", o.Width, o.Height)
	}
	if len(o.Values) != 3 || o.Values[1] != nil || *o.Values[2] != 0.75 {
		t.Fatalf("values seed mismatch: %v", o.Values)
	}
	fg, _ := o.Foreground()
	if r, g, b, _ := fg.RGBA(); r>>8 != 0xff || g>>8 != 0x88 || b>>8 != 0 {
		t.Fatalf("foreground = %v", fg)
	}
	p, unknown, err := o.MergedStyle().Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if p.Padding != 4 || p.Opacity != 0.3 || p.FontScale != 2 || len(unknown) != 0 {
		t.Fatalf("presentation = %+v unknown=%v", p, unknown)
	}
}

func TestLoadRejectsNonNumericPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("period: fast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("missing file should be an I/O error, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#00ff00", color.NRGBA{0, 255, 0, 255}},
		{"rgb(255, 0, 0)", color.NRGBA{255, 0, 0, 255}},
		{"Navy", color.NRGBA{0, 0, 128, 255}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %v want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseColor("#ggg"); err == nil {
		t.Fatal("expected error for invalid hex digits")
	}
}
