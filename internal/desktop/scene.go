package desktop

import (
	"image/color"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

var sceneBackground = color.NRGBA{R: 24, G: 26, B: 32, A: 255}

// newScene returns something for fyne to repaint every frame: a square
// sweeping back and forth across its container.
func newScene() fyne.CanvasObject {
	ball := canvas.NewRectangle(color.NRGBA{R: 80, G: 160, B: 255, A: 255})
	ball.Resize(fyne.NewSize(24, 24))
	stage := container.NewWithoutLayout(ball)

	anim := fyne.NewAnimation(2*time.Second, func(f float32) {
		size := stage.Size()
		x := (size.Width - ball.Size().Width) * f
		y := (size.Height - ball.Size().Height) / 2
		ball.Move(fyne.NewPos(x, y))
	})
	anim.AutoReverse = true
	anim.RepeatCount = fyne.AnimationRepeatForever
	anim.Start()
	return stage
}
