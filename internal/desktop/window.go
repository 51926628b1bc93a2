// Package desktop shows the overlay in a fyne window and drives the meter from
// fyne's own animation ticks, so the rate shown is the rate fyne paints at.
package desktop

import (
	"context"
	"image"
	"math"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
	"github.com/OriD-19/fpsmeter/internal/config"
	"github.com/OriD-19/fpsmeter/internal/logging"
	"github.com/OriD-19/fpsmeter/internal/meter"
	"github.com/OriD-19/fpsmeter/internal/overlay"
)

const appID = "io.github.orid19.fpsmeter"

// Mounts names the containers an overlay may be attached to.
type Mounts map[string]*fyne.Container

// Resolve returns the named mount. Unknown names fall back to the root mount.
func (m Mounts) Resolve(name string) *fyne.Container {
	if c, ok := m[name]; ok {
		return c
	}
	logging.Warnf("container %q not found, attaching overlay to %q", name, config.RootContainer)
	return m[config.RootContainer]
}

// anchorLayout pins each object, at its minimum size, to one corner.
type anchorLayout struct {
	pos config.Position
}

func (l anchorLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	min := fyne.NewSize(0, 0)
	for _, o := range objects {
		min = min.Max(o.MinSize())
	}
	return min
}

func (l anchorLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	host := image.Rect(0, 0, int(size.Width), int(size.Height))
	for _, o := range objects {
		min := o.MinSize()
		o.Resize(min)
		at := overlay.Place(host, image.Pt(int(math.Ceil(float64(min.Width))), int(math.Ceil(float64(min.Height)))), l.pos)
		o.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	}
}

// textReadout keeps the overlay's value and the on-screen text in step.
type textReadout struct {
	ov   *overlay.Overlay
	text *canvas.Text
}

func (r *textReadout) SetText(s string) {
	r.ov.SetText(s)
	if r.text != nil {
		r.text.Text = r.ov.Text()
		r.text.Refresh()
	}
}

// Panel is the on-screen overlay: swatch and sparkline side by side with the
// label and value.
type Panel struct {
	Object  fyne.CanvasObject
	Image   *canvas.Image
	Text    *canvas.Text
	Overlay *overlay.Overlay
	readout *textReadout
}

func newPanel(o config.Options, surface *image.RGBA) (*Panel, error) {
	ov, err := overlay.New(o, surface)
	if err != nil {
		return nil, err
	}
	pres := ov.Presentation()
	size := fyne.NewSize(float32(o.Width), float32(o.Height))

	swatch := canvas.NewRectangle(ov.Swatch())
	swatch.SetMinSize(size)
	img := canvas.NewImageFromImage(surface)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(size)

	text := canvas.NewText(ov.Text(), ov.Foreground())
	text.TextStyle = fyne.TextStyle{Monospace: true}
	text.TextSize = 11 * float32(pres.FontScale)

	pad := float32(pres.Padding)
	obj := container.New(layout.NewCustomPaddedLayout(pad, pad, pad, pad),
		container.NewHBox(container.NewStack(swatch, img), text))

	return &Panel{
		Object:  obj,
		Image:   img,
		Text:    text,
		Overlay: ov,
		readout: &textReadout{ov: ov, text: text},
	}, nil
}

// Attach adds the panel to the mount named by the options, pinned to the
// configured corner.
func (p *Panel) Attach(mounts Mounts, o config.Options) *fyne.Container {
	target := mounts.Resolve(o.ContainerName())
	target.Add(container.New(anchorLayout{pos: o.ParsedPosition()}, p.Object))
	return target
}

// Run opens the window and blocks until it is closed or ctx is done. The
// meter's summary is returned once the window has gone.
func Run(ctx context.Context, o config.Options) (v1.Summary, error) {
	surface := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	panel, err := newPanel(o, surface)
	if err != nil {
		return v1.Summary{}, err
	}
	m, err := meter.New(o, nil, surface, panel.readout)
	if err != nil {
		return v1.Summary{}, err
	}

	a := app.NewWithID(appID)
	w := a.NewWindow("fpsmeter")
	w.Resize(fyne.NewSize(640, 400))

	stage := container.NewStack(canvas.NewRectangle(sceneBackground), newScene())
	info := widget.NewLabel("meter " + m.ID() + "\nstrategy " + m.Aggregator().Strategy().Name())
	root := container.NewStack(container.NewGridWithColumns(2, info, stage))
	panel.Attach(Mounts{config.RootContainer: root, "stage": stage}, o)
	w.SetContent(root)

	frames := fyne.NewAnimation(time.Second, func(float32) {
		if ctx.Err() != nil {
			return
		}
		if _, ok := m.Tick(); ok {
			panel.Image.Refresh()
		}
	})
	frames.Curve = fyne.AnimationLinear
	frames.RepeatCount = fyne.AnimationRepeatForever

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			frames.Stop()
			w.Close()
		})
	}()

	frames.Start()
	logging.Infof("[meter %s] window open, measuring fyne frame rate", m.ID())
	w.ShowAndRun()
	frames.Stop()
	return m.Summary(), nil
}
