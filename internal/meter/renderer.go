package meter

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
)

// InitialReadout is shown until the first period completes.
const InitialReadout = "60.0"

// Readout displays the numeric rate next to the sparkline.
type Readout interface {
	SetText(string)
}

// ReadoutFunc adapts a function to a Readout.
type ReadoutFunc func(string)

func (f ReadoutFunc) SetText(s string) { f(s) }

// Renderer paints the history as a bar sparkline, one column per slot.
type Renderer struct {
	surface draw.Image
	fg      image.Image
	readout Readout
}

// NewRenderer draws onto surface with fg. readout may be nil.
func NewRenderer(surface draw.Image, fg color.Color, readout Readout) *Renderer {
	return &Renderer{surface: surface, fg: image.NewUniform(fg), readout: readout}
}

// Render clears the surface and draws slot i at column i, bottom-anchored, with
// height value*surfaceHeight. Drawing stops at the first unset slot, leaving the
// rest of the columns blank.
func (r *Renderer) Render(buf *RollingBuffer) {
	b := r.surface.Bounds()
	draw.Draw(r.surface, b, image.Transparent, image.Point{}, draw.Src)

	h := b.Dy()
	for i, slot := range buf.Values() {
		x := b.Min.X + i
		if x >= b.Max.X {
			break
		}
		v, ok := slot.Get()
		if !ok {
			break
		}
		bar := int(math.Round(v * float64(h)))
		if bar > h {
			bar = h
		}
		if bar <= 0 {
			continue
		}
		draw.Draw(r.surface, image.Rect(x, b.Max.Y-bar, x+1, b.Max.Y), r.fg, image.Point{}, draw.Src)
	}
}

// UpdateReadout shows rate with one decimal place.
func (r *Renderer) UpdateReadout(rate float64) {
	if r.readout != nil {
		r.readout.SetText(FormatRate(rate))
	}
}

// FormatRate formats a rate the way the readout shows it.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

func (r *Renderer) Surface() draw.Image { return r.surface }
