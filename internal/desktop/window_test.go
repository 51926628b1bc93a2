package desktop

import (
	"image"
	"testing"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"

	"github.com/OriD-19/fpsmeter/internal/config"
)

func TestAnchorLayout(t *testing.T) {
	host := fyne.NewSize(200, 100)
	cases := map[string]fyne.Position{
		"top-left":     fyne.NewPos(0, 0),
		"top-right":    fyne.NewPos(150, 0),
		"bottom-right": fyne.NewPos(150, 80),
		"bottom-left":  fyne.NewPos(0, 80),
		"nowhere":      fyne.NewPos(0, 80),
	}
	for name, want := range cases {
		r := canvas.NewRectangle(nil)
		r.SetMinSize(fyne.NewSize(50, 20))
		anchorLayout{pos: config.ParsePosition(name)}.Layout([]fyne.CanvasObject{r}, host)
		if r.Position() != want {
			t.Fatalf("%s: at %v want %v", name, r.Position(), want)
		}
		if r.Size() != fyne.NewSize(50, 20) {
			t.Fatalf("%s: resized to %v", name, r.Size())
		}
	}
}

func TestMountsFallBackToRoot(t *testing.T) {
	root, stage := container.NewStack(), container.NewStack()
	mounts := Mounts{config.RootContainer: root, "stage": stage}
	if mounts.Resolve("stage") != stage {
		t.Fatal("named mount not resolved")
	}
	if mounts.Resolve("#missing") != root {
		t.Fatal("unknown mount should fall back to root")
	}
}

func TestPanelReadoutUpdatesText(t *testing.T) {
	test.NewTempApp(t)

	o := config.Defaults()
	o.SlowPercentile = 90
	o.Container = "stage"
	surface := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	p, err := newPanel(o, surface)
	if err != nil {
		t.Fatal(err)
	}
	if p.Text.Text != "fps 90 percentile 60.0" {
		t.Fatalf("initial text = %q", p.Text.Text)
	}
	p.readout.SetText("31.5")
	if p.Text.Text != "fps 90 percentile 31.5" || p.Overlay.Value() != "31.5" {
		t.Fatalf("text = %q value = %q", p.Text.Text, p.Overlay.Value())
	}

	root, stage := container.NewStack(), container.NewStack()
	if got := p.Attach(Mounts{config.RootContainer: root, "stage": stage}, o); got != stage || len(stage.Objects) != 1 {
		t.Fatal("panel should attach to the configured mount")
	}
}
