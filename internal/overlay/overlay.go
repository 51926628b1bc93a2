// Package overlay assembles the meter's visible parts (background swatch,
// sparkline surface, label and value) into a single panel image, and pins that
// panel to a corner of its host.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/OriD-19/fpsmeter/internal/config"
	"github.com/OriD-19/fpsmeter/internal/logging"
	"github.com/OriD-19/fpsmeter/internal/meter"
)

// gap between the sparkline and the text, a third of the 16px em.
const gap = 5

var face = basicfont.Face7x13

// Overlay holds everything needed to draw the panel. It satisfies
// meter.Readout, so the meter can update the value directly.
type Overlay struct {
	label    string
	value    string
	fg       color.Color
	pres     config.Presentation
	position config.Position
	surface  image.Image
}

// New resolves presentation options for a meter drawing onto surface.
// Unknown style keys are logged and ignored.
func New(o config.Options, surface image.Image) (*Overlay, error) {
	fg, err := o.Foreground()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	pres, unknown, err := o.MergedStyle().Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	for _, k := range unknown {
		logging.Warnf("[overlay %s] ignoring unsupported style key %q", o.ID, k)
	}
	return &Overlay{
		label:    o.Label(),
		value:    meter.InitialReadout,
		fg:       fg,
		pres:     pres,
		position: o.ParsedPosition(),
		surface:  surface,
	}, nil
}

// SetText replaces the numeric value.
func (ov *Overlay) SetText(s string) { ov.value = s }

func (ov *Overlay) Text() string                      { return ov.label + ov.value }
func (ov *Overlay) Label() string                     { return ov.label }
func (ov *Overlay) Value() string                     { return ov.value }
func (ov *Overlay) Foreground() color.Color           { return ov.fg }
func (ov *Overlay) Position() config.Position         { return ov.position }
func (ov *Overlay) Presentation() config.Presentation { return ov.pres }

// Swatch is the background patch behind the sparkline: the swatch color at the
// configured opacity.
func (ov *Overlay) Swatch() color.Color {
	base := ov.pres.Background
	if base == nil {
		base = ov.fg
	}
	return withOpacity(base, ov.pres.Opacity)
}

func withOpacity(c color.Color, opacity float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*opacity + 0.5)
	return n
}

func (ov *Overlay) textSize() image.Point {
	d := &font.Drawer{Face: face}
	w := d.MeasureString(ov.Text()).Ceil()
	h := face.Metrics().Height.Ceil()
	return image.Pt(w*ov.pres.FontScale, h*ov.pres.FontScale)
}

// Size is the panel's size in pixels, padding included.
func (ov *Overlay) Size() image.Point {
	sb := ov.surface.Bounds()
	ts := ov.textSize()
	pad := ov.pres.Padding
	h := sb.Dy()
	if ts.Y > h {
		h = ts.Y
	}
	return image.Pt(pad+sb.Dx()+gap+ts.X+pad, pad+h+pad)
}

// Compose draws the panel at its current state. The sparkline sits at the
// left, the text follows it, both top-aligned inside the padding.
func (ov *Overlay) Compose() *image.RGBA {
	size := ov.Size()
	panel := image.NewRGBA(image.Rectangle{Max: size})
	pad := ov.pres.Padding

	sb := ov.surface.Bounds()
	sr := image.Rect(pad, pad, pad+sb.Dx(), pad+sb.Dy())
	draw.Draw(panel, sr, image.NewUniform(ov.Swatch()), image.Point{}, draw.Over)
	draw.Draw(panel, sr, ov.surface, sb.Min, draw.Over)

	text := ov.renderText()
	tr := text.Bounds().Add(image.Pt(sr.Max.X+gap, pad))
	if ov.pres.FontScale > 1 {
		tr = image.Rectangle{Min: tr.Min, Max: tr.Min.Add(text.Bounds().Size().Mul(ov.pres.FontScale))}
		xdraw.NearestNeighbor.Scale(panel, tr, text, text.Bounds(), xdraw.Over, nil)
	} else {
		draw.Draw(panel, tr, text, image.Point{}, draw.Over)
	}
	return panel
}

// renderText draws label and value at the face's native size.
func (ov *Overlay) renderText() *image.RGBA {
	d := &font.Drawer{Face: face}
	w := d.MeasureString(ov.Text()).Ceil()
	m := face.Metrics()
	img := image.NewRGBA(image.Rect(0, 0, w, m.Height.Ceil()))
	d.Dst = img
	d.Src = image.NewUniform(ov.fg)
	d.Dot = fixed.Point26_6{X: 0, Y: m.Ascent}
	d.DrawString(ov.Text())
	return img
}

// Place returns the top-left corner of a panel of the given size pinned to the
// corner of host selected by pos.
func Place(host image.Rectangle, size image.Point, pos config.Position) image.Point {
	right, bottom := pos.Anchors()
	at := host.Min
	if right {
		at.X = host.Max.X - size.X
	}
	if bottom {
		at.Y = host.Max.Y - size.Y
	}
	return at
}

// Mount draws the composed panel onto dst at its anchored corner.
func (ov *Overlay) Mount(dst draw.Image) {
	panel := ov.Compose()
	at := Place(dst.Bounds(), panel.Bounds().Size(), ov.position)
	draw.Draw(dst, panel.Bounds().Add(at), panel, image.Point{}, draw.Over)
}

// WritePNG saves img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
