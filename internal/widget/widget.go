// Package widget provides toolkit-neutral widget handles. A window composes them
// and registers callbacks; a front end (terminal or raylib) only reads their state
// and forwards input.
package widget

// Widget is any node in a window's widget tree.
type Widget interface {
	Visible() bool
	Show()
	Hide()
	Dispose()
	Disposed() bool
}

type base struct {
	hidden   bool
	disposed bool
}

func (b *base) Visible() bool  { return !b.hidden && !b.disposed }
func (b *base) Show()          { b.hidden = false }
func (b *base) Hide()          { b.hidden = true }
func (b *base) Disposed() bool { return b.disposed }

type Label struct {
	base
	Text string
}

func NewLabel(text string) *Label { return &Label{Text: text} }

func (l *Label) SetText(text string) { l.Text = text }
func (l *Label) Dispose()            { l.disposed = true }

// Swatch is a colored box.
type Swatch struct {
	base
	Color string
}

func NewSwatch(hex string) *Swatch { return &Swatch{Color: hex} }

func (s *Swatch) SetColor(hex string) { s.Color = hex }
func (s *Swatch) Dispose()            { s.disposed = true }

type Button struct {
	base
	Text    string
	Color   string
	onClick []func()
}

func NewButton(text, hex string) *Button { return &Button{Text: text, Color: hex} }

func (b *Button) OnClick(fn func()) { b.onClick = append(b.onClick, fn) }

// Click fires the callbacks of a live, visible button.
func (b *Button) Click() {
	if !b.Visible() {
		return
	}
	for _, fn := range b.onClick {
		fn()
	}
}

func (b *Button) SetColor(hex string) { b.Color = hex }

func (b *Button) Dispose() {
	b.disposed = true
	b.onClick = nil
}

// Slider holds an integer in [Min, Max].
type Slider struct {
	base
	Min, Max int
	Value    int
	onChange []func(int)
}

func NewSlider(lo, hi, value int) *Slider {
	s := &Slider{Min: lo, Max: hi}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) OnChange(fn func(int)) { s.onChange = append(s.onChange, fn) }

// SetValue clamps v and fires callbacks when the value changed.
func (s *Slider) SetValue(v int) {
	if s.disposed {
		return
	}
	v = s.clamp(v)
	if v == s.Value {
		return
	}
	s.Value = v
	for _, fn := range s.onChange {
		fn(v)
	}
}

func (s *Slider) Step(delta int) { s.SetValue(s.Value + delta) }

// Sync sets the value without firing callbacks, for state changed elsewhere.
func (s *Slider) Sync(v int) { s.Value = s.clamp(v) }

// Fraction is the position of Value within the range, in [0,1].
func (s *Slider) Fraction() float64 {
	if s.Max == s.Min {
		return 0
	}
	return float64(s.Value-s.Min) / float64(s.Max-s.Min)
}

func (s *Slider) Dispose() {
	s.disposed = true
	s.onChange = nil
}

func (s *Slider) clamp(v int) int {
	return min(s.Max, max(s.Min, v))
}
