package window

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/colormap"
)

const (
	focusClasses = iota
	focusMatrix
	focusPreview
	focusCount
)

const (
	panelWidth   = 38
	countStep    = 10
	previewStep  = 50
	restStep     = 5
	rotateStep   = 0.1
	minViewCols  = 10
	minViewRows  = 5
	sliderLength = 14
)

type tickMsg time.Time

type model struct {
	w       *Window
	surface *canvas.BrailleSurface

	focus    int
	cursor   int
	row, col int

	width, height int
}

// Program adapts a window and its terminal surface to a Bubble Tea model.
func Program(w *Window, surface *canvas.BrailleSurface) tea.Model {
	return model{w: w, surface: surface, row: 1, col: 1, width: 100, height: 30}
}

// Run starts the terminal window and blocks until it quits.
func Run(w *Window, surface *canvas.BrailleSurface) error {
	_, err := tea.NewProgram(Program(w, surface), tea.WithAltScreen()).Run()
	return err
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.w.TickInterval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.w.popup != nil {
			return m.popupKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.surface.Resize(max(minViewCols, m.width-panelWidth-6), max(minViewRows, m.height-6))
		m.surface.Redraw()
		return m, nil
	case tickMsg:
		_ = m.w.Tick()
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	w := m.w
	n := w.NumClasses()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
	case "up", "k":
		switch m.focus {
		case focusClasses:
			m.cursor = max(0, m.cursor-1)
		case focusMatrix:
			m.row = max(1, m.row-1)
		}
	case "down", "j":
		switch m.focus {
		case focusClasses:
			m.cursor = min(n, m.cursor+1)
		case focusMatrix:
			m.row = min(max(1, n), m.row+1)
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "enter", " ":
		switch m.focus {
		case focusClasses:
			if m.cursor >= n {
				w.Adder.Click()
			} else {
				_ = w.ShowColorPicker(m.cursor + 1)
			}
		case focusMatrix:
			if n > 0 {
				_ = w.ShowRelationshipSlider(m.row, m.col)
			}
		case focusPreview:
			_ = w.SetPreviewCount(w.Preview.Value)
		}
	case "+", "a":
		w.Adder.Click()
	case "s":
		w.SaveButton.Click()
	case "x":
		w.ResetButton.Click()
		m.cursor, m.row, m.col = 0, 1, 1
	case "p":
		_ = w.SetPreviewCount(w.Preview.Value)
	case "[":
		m.surface.Camera.RotateY(-rotateStep)
	case "]":
		m.surface.Camera.RotateY(rotateStep)
	case "{":
		m.surface.Camera.RotateX(-rotateStep)
	case "}":
		m.surface.Camera.RotateX(rotateStep)
	case "-":
		m.surface.Camera.ZoomOut()
	case "=":
		m.surface.Camera.ZoomIn()
	}
	m.cursor = min(m.cursor, w.NumClasses())
	m.surface.Redraw()
	return m, nil
}

func (m *model) adjust(dir int) {
	w := m.w
	switch m.focus {
	case focusClasses:
		classes := w.Classes()
		if m.cursor < len(classes) {
			c := classes[m.cursor]
			next := min(w.Config().MaxParticles, max(1, c.Count+dir*countStep))
			_ = w.SetClassCount(m.cursor+1, next)
		}
	case focusMatrix:
		m.col = min(max(1, w.NumClasses()), max(1, m.col+dir))
	case focusPreview:
		w.Preview.Step(dir * previewStep)
	}
}

func (m model) popupKey(msg tea.KeyMsg) (model, tea.Cmd) {
	w := m.w
	p := w.popup
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "q":
		w.ClosePopup()
		return m, nil
	}
	switch p.Kind {
	case ColorPopup:
		switch msg.String() {
		case "left", "h":
			_ = w.PickSwatch(-1)
		case "right", "l":
			_ = w.PickSwatch(1)
		case "m":
			p.Mass.Step(-1)
		case "M":
			p.Mass.Step(1)
		case "b":
			p.Restitution.Step(-restStep)
		case "B":
			p.Restitution.Step(restStep)
		}
	case RelationshipPopup:
		switch msg.String() {
		case "left", "h":
			p.Value.Step(-1)
		case "right", "l":
			p.Value.Step(1)
		}
	}
	return m, nil
}

func (m model) View() string {
	left := m.viewPanel()
	if m.w.popup != nil {
		left = lipgloss.JoinVertical(lipgloss.Left, left, m.viewPopup())
	}
	right := panelStyle.Render(m.surface.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	state := idleStyle.Render("idle")
	if m.w.Running() {
		state = runningStyle.Render(fmt.Sprintf("running  step %d", m.w.System().Steps()))
	}
	status := "  " + state + "  " + subStyle.Render(m.w.Status)
	keys := "  " + hint("tab", "focus", "enter", "open", "h/l", "adjust", "+", "add", "s", "save", "x", "reset", "p", "preview", "q", "quit")
	return body + "\n" + status + "\n" + keys
}

func (m model) viewPanel() string {
	w := m.w
	var b strings.Builder
	b.WriteString(titleStyle.Render("PARTISIM") + "\n" + subStyle.Render("particle simulation") + "\n\n")

	b.WriteString(m.heading("classes", focusClasses))
	for i, c := range w.Classes() {
		mark := "  "
		name := fmt.Sprintf("%d", i+1)
		if m.focus == focusClasses && m.cursor == i {
			mark, name = cursorMark+" ", focusStyle.Render(name)
		}
		frac := float64(c.Count-1) / float64(max(1, w.Config().MaxParticles-1))
		b.WriteString(fmt.Sprintf("%s%s %s %s %4s\n", mark, name, block(c.Color), bar(frac, sliderLength), c.CountLabel))
		b.WriteString(subStyle.Render(fmt.Sprintf("      m=%.0f  e=%.2f", c.Mass, c.Restitution)) + "\n")
	}
	if w.Adder.Visible() {
		mark := "  "
		if m.focus == focusClasses && m.cursor >= w.NumClasses() {
			mark = cursorMark + " "
		}
		b.WriteString(mark + keyStyle.Render("+") + hintStyle.Render(" add class") + "\n")
	}

	b.WriteString("\n" + m.heading("relationships", focusMatrix))
	classes := w.Classes()
	if len(classes) > 0 {
		b.WriteString("    ")
		for _, c := range classes {
			b.WriteString(block(c.Color) + " ")
		}
		b.WriteString("\n")
	}
	for i, row := range w.Matrix() {
		b.WriteString(" " + block(classes[i].Color) + " ")
		for j, hex := range row {
			cell := block(hex)
			if m.focus == focusMatrix && m.row == i+1 && m.col == j+1 {
				cell = focusStyle.Render("[]")
			}
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.heading("preview", focusPreview))
	b.WriteString("  " + bar(w.Preview.Fraction(), sliderLength) + " " + w.PreviewLabel.Text + "\n")

	var buttons []string
	for _, btn := range []struct {
		key  string
		text string
		show bool
	}{{"s", w.SaveButton.Text, w.SaveButton.Visible()}, {"x", w.ResetButton.Text, w.ResetButton.Visible()}} {
		if btn.show {
			buttons = append(buttons, keyStyle.Render(btn.key)+" "+focusStyle.Render(btn.text))
		}
	}
	if len(buttons) > 0 {
		b.WriteString("\n  " + strings.Join(buttons, "   ") + "\n")
	}
	return panelStyle.Width(panelWidth).Render(b.String())
}

func (m model) heading(text string, focus int) string {
	if m.focus == focus {
		return focusStyle.Render(strings.ToUpper(text)) + "\n"
	}
	return subStyle.Render(strings.ToUpper(text)) + "\n"
}

func (m model) viewPopup() string {
	p := m.w.popup
	var b strings.Builder
	switch p.Kind {
	case ColorPopup:
		c := m.w.Classes()[p.Class-1]
		b.WriteString(titleStyle.Render(fmt.Sprintf("class %d", p.Class)) + " " + block(c.Color) + "\n")
		b.WriteString(m.viewSwatches(p.Swatch) + "\n")
		b.WriteString(fmt.Sprintf("mass  %s %s\n", bar(p.Mass.Fraction(), sliderLength), p.MassLabel.Text))
		b.WriteString(fmt.Sprintf("rest  %s %s\n", bar(p.Restitution.Fraction(), sliderLength), p.RestitutionLabel.Text))
		b.WriteString(hint("h/l", "color", "m/M", "mass", "b/B", "rest", "esc", "close"))
	case RelationshipPopup:
		b.WriteString(titleStyle.Render("relationship "+p.Pair.String()) + " " + block(m.w.GetCmapColor(p.Value.Value)) + "\n")
		b.WriteString(fmt.Sprintf("%s %s\n", bar(p.Value.Fraction(), sliderLength), p.ValueLabel.Text))
		b.WriteString(hint("h/l", "value", "esc", "close"))
	}
	return popupStyle.Width(panelWidth).Render(b.String())
}

func (m model) viewSwatches(selected int) string {
	var b strings.Builder
	for i, hex := range colormap.Swatches {
		if i == selected {
			b.WriteString(focusStyle.Render("▸"))
		} else {
			b.WriteString(" ")
		}
		b.WriteString(block(hex))
	}
	return b.String()
}
