// Package gui runs the particle window in a raylib window. The controls mirror
// the terminal window: a side panel of classes, the relationship matrix and the
// preview slider, with particles drawn to the right.
package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/partisim/internal/colormap"
	"github.com/san-kum/partisim/internal/window"
)

const (
	screenW  = 1280
	screenH  = 720
	panelW   = 380
	rowH     = 26
	cellSize = 22
	margin   = 20
)

var (
	ColPanel   = rl.NewColor(20, 20, 24, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type hotspot struct {
	rect   rl.Rectangle
	action func()
}

type App struct {
	Win     *window.Window
	Surface *RaylibSurface

	background rl.Color
	hotspots   []hotspot
	elapsed    time.Duration
	cursor     int
}

func NewApp(w *window.Window, surface *RaylibSurface) *App {
	bg := rl.NewColor(36, 36, 43, 255)
	if c, err := colormap.ParseHex(w.Config().Background); err == nil {
		bg = toColor(c)
	}
	return &App{Win: w, Surface: surface, background: bg}
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "partisim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(w *window.Window, surface *RaylibSurface) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(w, surface).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the simulation. It reports whether to quit.
func (a *App) Update() bool {
	w := a.Win
	a.elapsed += time.Duration(rl.GetFrameTime() * float32(time.Second))
	for tick := w.TickInterval(); a.elapsed >= tick; a.elapsed -= tick {
		_ = w.Tick()
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		for _, h := range a.hotspots {
			if rl.CheckCollisionPointRec(pos, h.rect) {
				h.action()
				break
			}
		}
	}

	if p := w.Popup(); p != nil {
		a.popupKeys(p)
		return false
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd):
		w.Adder.Click()
	case rl.IsKeyPressed(rl.KeyS):
		w.SaveButton.Click()
	case rl.IsKeyPressed(rl.KeyX):
		w.ResetButton.Click()
		a.cursor = 0
	case rl.IsKeyPressed(rl.KeyP):
		_ = w.SetPreviewCount(w.Preview.Value)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.cursor = min(max(0, w.NumClasses()-1), a.cursor+1)
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.cursor = max(0, a.cursor-1)
	case rl.IsKeyPressed(rl.KeyEnter):
		if a.cursor < w.NumClasses() {
			_ = w.ShowColorPicker(a.cursor + 1)
		}
	case rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL):
		a.stepCount(10)
	case rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH):
		a.stepCount(-10)
	case rl.IsKeyPressed(rl.KeyPageUp):
		w.Preview.Step(50)
	case rl.IsKeyPressed(rl.KeyPageDown):
		w.Preview.Step(-50)
	}

	if rl.IsKeyDown(rl.KeyA) {
		a.Surface.Rotate(-0.03, 0)
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.Surface.Rotate(0.03, 0)
	}
	if rl.IsKeyDown(rl.KeyW) {
		a.Surface.Rotate(0, 0.03)
	}
	if rl.IsKeyDown(rl.KeyZ) {
		a.Surface.Rotate(0, -0.03)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if wheel > 0 {
			a.Surface.Zoom(0.9)
		} else {
			a.Surface.Zoom(1.1)
		}
	}
	return false
}

func (a *App) stepCount(delta int) {
	classes := a.Win.Classes()
	if a.cursor >= len(classes) {
		return
	}
	limit := a.Win.Config().MaxParticles
	n := min(limit, max(1, classes[a.cursor].Count+delta))
	_ = a.Win.SetClassCount(a.cursor+1, n)
}

func (a *App) popupKeys(p *window.Popup) {
	w := a.Win
	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyEnter) {
		w.ClosePopup()
		return
	}
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	switch p.Kind {
	case window.ColorPopup:
		switch {
		case rl.IsKeyPressed(rl.KeyLeft):
			_ = w.PickSwatch(-1)
		case rl.IsKeyPressed(rl.KeyRight):
			_ = w.PickSwatch(1)
		case rl.IsKeyPressed(rl.KeyM) && shift:
			p.Mass.Step(1)
		case rl.IsKeyPressed(rl.KeyM):
			p.Mass.Step(-1)
		case rl.IsKeyPressed(rl.KeyB) && shift:
			p.Restitution.Step(5)
		case rl.IsKeyPressed(rl.KeyB):
			p.Restitution.Step(-5)
		}
	case window.RelationshipPopup:
		switch {
		case rl.IsKeyPressed(rl.KeyLeft):
			p.Value.Step(-1)
		case rl.IsKeyPressed(rl.KeyRight):
			p.Value.Step(1)
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.background)

	a.Surface.Draw(panelW, 0, screenW-panelW, screenH)
	a.hotspots = a.hotspots[:0]
	a.drawPanel()
	if p := a.Win.Popup(); p != nil {
		a.drawPopup(p)
	}

	rl.EndDrawing()
}

func (a *App) drawPanel() {
	w := a.Win
	rl.DrawRectangle(0, 0, panelW, screenH, ColPanel)
	drawText("partisim", margin, margin, 24, ColSelect)

	y := int32(70)
	drawText("CLASSES", margin, y, 14, ColText)
	y += 22
	for i, c := range w.Classes() {
		class := i + 1
		col := ColText
		if i == a.cursor {
			col = ColSelect
		}
		a.button(margin, y, cellSize, cellSize, hexColor(c.Color), func() { _ = w.ShowColorPicker(class) })
		drawText(fmt.Sprintf("%4s  m=%.0f e=%.2f", c.CountLabel, c.Mass, c.Restitution), margin+cellSize+10, y+4, 14, col)
		frac := float32(c.Count) / float32(w.Config().MaxParticles)
		a.slider(margin+200, y+8, 140, frac, func(f float32) {
			_ = w.SetClassCount(class, max(1, int(f*float32(w.Config().MaxParticles))))
		})
		y += rowH
	}
	if w.Adder.Visible() {
		a.button(margin, y, cellSize, cellSize, ColTextDim, w.Adder.Click)
		drawText("+", margin+7, y+4, 14, ColSelect)
		y += rowH
	}

	y += 14
	drawText("RELATIONSHIPS", margin, y, 14, ColText)
	y += 22
	classes := w.Classes()
	for j, c := range classes {
		rl.DrawRectangle(margin+int32(j+1)*(cellSize+4), y, cellSize, cellSize, hexColor(c.Color))
	}
	y += cellSize + 4
	for i, row := range w.Matrix() {
		rl.DrawRectangle(margin, y, cellSize, cellSize, hexColor(classes[i].Color))
		for j, hex := range row {
			ci, cj := i+1, j+1
			a.button(margin+int32(j+1)*(cellSize+4), y, cellSize, cellSize, hexColor(hex), func() { _ = w.ShowRelationshipSlider(ci, cj) })
		}
		y += cellSize + 4
	}

	y += 14
	drawText(fmt.Sprintf("PREVIEW  %s", w.PreviewLabel.Text), margin, y, 14, ColText)
	y += 22
	a.slider(margin, y, panelW-2*margin, float32(w.Preview.Fraction()), func(f float32) {
		span := w.Preview.Max - w.Preview.Min
		w.Preview.SetValue(w.Preview.Min + int(f*float32(span)))
	})

	y += 30
	if w.SaveButton.Visible() {
		a.button(margin, y, 80, rowH, ColTextDim, w.SaveButton.Click)
		drawText(w.SaveButton.Text, margin+20, y+6, 14, ColSelect)
	}
	if w.ResetButton.Visible() {
		a.button(margin+100, y, 80, rowH, ColTextDim, w.ResetButton.Click)
		drawText(w.ResetButton.Text, margin+118, y+6, 14, ColSelect)
	}

	status := "IDLE"
	if w.Running() {
		status = fmt.Sprintf("RUNNING  step %d", w.System().Steps())
	}
	drawText(status, margin, screenH-70, 14, ColAccent)
	drawText(w.Status, margin, screenH-50, 12, ColText)
	drawText("[=] ADD  [S] SAVE  [X] RESET  [P] PREVIEW  [Q] QUIT", margin, screenH-28, 12, ColTextDim)
	drawText(fmt.Sprintf("%d FPS  %d particles", rl.GetFPS(), a.Surface.Len()), screenW-220, screenH-28, 12, ColTextDim)
}

func (a *App) drawPopup(p *window.Popup) {
	const x, y, pw, ph = panelW + 40, 40, 360, 170
	rl.DrawRectangle(x, y, pw, ph, ColPanel)
	rl.DrawRectangleLines(x, y, pw, ph, ColAccent)
	w := a.Win
	switch p.Kind {
	case window.ColorPopup:
		drawText(fmt.Sprintf("class %d", p.Class), x+16, y+14, 16, ColSelect)
		for i, hex := range colormap.Swatches {
			idx := i
			sx := int32(x + 16 + i*(cellSize+8))
			a.button(sx, y+44, cellSize, cellSize, hexColor(hex), func() {
				_ = w.SelectSwatch(idx)
			})
			if i == p.Swatch {
				rl.DrawRectangleLines(sx-2, y+42, cellSize+4, cellSize+4, ColSelect)
			}
		}
		drawText("mass "+p.MassLabel.Text, x+16, y+84, 14, ColText)
		a.slider(x+150, y+90, 190, float32(p.Mass.Fraction()), func(f float32) {
			p.Mass.SetValue(p.Mass.Min + int(f*float32(p.Mass.Max-p.Mass.Min)+0.5))
		})
		drawText("restitution "+p.RestitutionLabel.Text, x+16, y+114, 14, ColText)
		a.slider(x+150, y+120, 190, float32(p.Restitution.Fraction()), func(f float32) {
			p.Restitution.SetValue(int(f*float32(p.Restitution.Max) + 0.5))
		})
	case window.RelationshipPopup:
		drawText("relationship "+p.Pair.String(), x+16, y+14, 16, ColSelect)
		rl.DrawRectangle(x+pw-16-cellSize, y+12, cellSize, cellSize, hexColor(w.GetCmapColor(p.Value.Value)))
		drawText(p.ValueLabel.Text, x+16, y+84, 14, ColText)
		a.slider(x+60, y+90, 280, float32(p.Value.Fraction()), func(f float32) {
			p.Value.SetValue(p.Value.Min + int(f*float32(p.Value.Max-p.Value.Min)+0.5))
		})
	}
	drawText("[ESC] CLOSE", x+16, y+ph-24, 12, ColTextDim)
}

func (a *App) button(x, y, w, h int32, col rl.Color, action func()) {
	rect := rl.NewRectangle(float32(x), float32(y), float32(w), float32(h))
	rl.DrawRectangleRec(rect, col)
	a.hotspots = append(a.hotspots, hotspot{rect: rect, action: action})
}

// slider draws a track and maps a click on it to a fraction in [0,1].
func (a *App) slider(x, y, w int32, frac float32, set func(float32)) {
	rl.DrawRectangle(x, y, w, 4, ColTextDim)
	rl.DrawRectangle(x, y, int32(frac*float32(w)), 4, ColAccent)
	rl.DrawCircle(x+int32(frac*float32(w)), y+2, 6, ColSelect)
	rect := rl.NewRectangle(float32(x), float32(y-8), float32(w), 20)
	a.hotspots = append(a.hotspots, hotspot{rect: rect, action: func() {
		set((rl.GetMousePosition().X - rect.X) / rect.Width)
	}})
}

func drawText(text string, x, y, size int32, col rl.Color) {
	rl.DrawText(text, x, y, size, col)
}

func hexColor(hex string) rl.Color {
	c, err := colormap.ParseHex(hex)
	if err != nil {
		return ColText
	}
	return toColor(c)
}
