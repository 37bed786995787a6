package window

import (
	"fmt"
	"strconv"
	"time"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/colormap"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/life"
	"github.com/san-kum/partisim/internal/logging"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/widget"
	"go.uber.org/zap"
)

// DataSource serves preview particles. *middleware.Middleware satisfies it.
type DataSource interface {
	ParticleSet(n int) (particle.ParticleSet, error)
}

// Store persists saved settings. *storage.Store satisfies it.
type Store interface {
	Save(settings config.Settings, note string) (string, error)
}

type class struct {
	species    particle.Species
	row        *widget.Layout
	button     *widget.Button
	count      *widget.Slider
	countLabel *widget.Label
	boxes      [2]*widget.Swatch
}

type relationship struct {
	value   int
	buttons []*widget.Button
}

type PopupKind int

const (
	NoPopup PopupKind = iota
	ColorPopup
	RelationshipPopup
)

// Popup is the transient settings panel opened from a class or matrix cell.
type Popup struct {
	Kind   PopupKind
	Class  int
	Pair   particle.Pair
	Swatch int
	Layout *widget.Layout

	Mass             *widget.Slider
	MassLabel        *widget.Label
	Restitution      *widget.Slider
	RestitutionLabel *widget.Label

	Value      *widget.Slider
	ValueLabel *widget.Label
}

type Options struct {
	Config *config.Config
	Data   DataSource
	Canvas *canvas.Canvas
	Store  Store
	Logger *zap.Logger
}

// Window owns the control widgets and routes their events to the data source,
// the canvas and the particle-life simulation.
type Window struct {
	cfg    config.WindowConfig
	sim    config.SimulationConfig
	seed   int64
	data   DataSource
	canvas *canvas.Canvas
	store  Store
	logger *zap.Logger

	palette       []string
	classes       []*class
	relationships map[particle.Pair]*relationship

	ParticleLayout *widget.Layout
	RelLayout      *widget.Layout
	Adder          *widget.Button
	SaveButton     *widget.Button
	ResetButton    *widget.Button
	Preview        *widget.Slider
	PreviewLabel   *widget.Label

	popup   *Popup
	system  *life.System
	running bool

	Status   string
	LastSave string
}

func New(opts Options) (*Window, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Data == nil || opts.Canvas == nil {
		return nil, fmt.Errorf("%w: window needs a data source and a canvas", particle.ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ramp, err := colormap.Get(cfg.Window.Colormap)
	if err != nil {
		return nil, err
	}

	w := &Window{
		cfg:            cfg.Window,
		sim:            cfg.Simulation,
		seed:           cfg.Seed,
		data:           opts.Data,
		canvas:         opts.Canvas,
		store:          opts.Store,
		logger:         logging.OrNop(opts.Logger),
		relationships:  make(map[particle.Pair]*relationship),
		ParticleLayout: widget.NewLayout(),
		RelLayout:      widget.NewLayout(),
		Adder:          widget.NewButton("+", ""),
		SaveButton:     widget.NewButton("Save", ""),
		ResetButton:    widget.NewButton("Reset", ""),
	}
	for _, c := range ramp.Palette(cfg.Window.Relationships + 1) {
		w.palette = append(w.palette, c.Hex())
	}

	w.Adder.OnClick(func() { _ = w.AddParticleColor() })
	w.SaveButton.OnClick(func() { _ = w.Saved() })
	w.ResetButton.OnClick(w.Reset)
	w.SaveButton.Hide()
	w.ResetButton.Hide()

	maxPreview := cfg.Window.MaxParticles * cfg.Window.MaxClasses
	w.Preview = widget.NewSlider(0, maxPreview, cfg.Generator.Preview)
	w.PreviewLabel = widget.NewLabel(strconv.Itoa(w.Preview.Value))
	w.Preview.OnChange(func(v int) { _ = w.preview(v) })
	return w, nil
}

func (w *Window) Canvas() *canvas.Canvas      { return w.canvas }
func (w *Window) Config() config.WindowConfig { return w.cfg }
func (w *Window) Popup() *Popup               { return w.popup }
func (w *Window) Running() bool               { return w.running }
func (w *Window) System() *life.System        { return w.system }
func (w *Window) NumClasses() int             { return len(w.classes) }

// TickInterval is the simulation frame period.
func (w *Window) TickInterval() time.Duration {
	return time.Second / time.Duration(w.cfg.TickRate)
}

// ClassView is the read-only state of one class row.
type ClassView struct {
	Color       string
	Count       int
	Mass        float64
	Restitution float64
	CountLabel  string
}

func (w *Window) Classes() []ClassView {
	out := make([]ClassView, len(w.classes))
	for i, c := range w.classes {
		out[i] = ClassView{
			Color:       c.button.Color,
			Count:       c.species.Count,
			Mass:        c.species.Mass,
			Restitution: c.species.Restitution,
			CountLabel:  c.countLabel.Text,
		}
	}
	return out
}

// Matrix returns the swatch color of every relationship cell, row-major.
func (w *Window) Matrix() [][]string {
	n := len(w.classes)
	out := make([][]string, n)
	for i := range out {
		out[i] = make([]string, n)
		for j := range out[i] {
			out[i][j] = w.GetCmapColor(w.Relationship(i+1, j+1))
		}
	}
	return out
}

func (w *Window) Relationship(i, j int) int {
	if r, ok := w.relationships[particle.MakePair(i, j)]; ok {
		return r.value
	}
	return 0
}

// RelationshipButtons returns the matrix buttons bound to the pair (i, j).
func (w *Window) RelationshipButtons(i, j int) []*widget.Button {
	if r, ok := w.relationships[particle.MakePair(i, j)]; ok {
		return r.buttons
	}
	return nil
}

// GetCmapColor maps a relationship value to a hex color. Values are offset by
// half the relationship range into a palette of Relationships+1 viridis samples
// and clamped to its ends.
func (w *Window) GetCmapColor(idx int) string {
	k := w.cfg.Relationships/2 + idx
	k = min(len(w.palette)-1, max(0, k))
	return w.palette[k]
}

// AddParticleColor appends a particle class with its count slider, color button
// and a new row and column of the relationship matrix.
func (w *Window) AddParticleColor() error {
	if len(w.classes) >= w.cfg.MaxClasses {
		return w.fail("add class", fmt.Errorf("%w: at most %d classes", particle.ErrInvalidArgument, w.cfg.MaxClasses))
	}
	n := len(w.classes) + 1
	red := particle.RGBA{R: 1, A: 1}

	c := &class{
		species: particle.Species{
			Color:       red,
			Count:       w.cfg.MaxParticles / 2,
			Mass:        float64(w.cfg.MinMass),
			Restitution: 1,
		},
	}
	c.button = widget.NewButton("", red.Hex())
	c.button.OnClick(func() { _ = w.ShowColorPicker(n) })
	c.count = widget.NewSlider(1, w.cfg.MaxParticles, c.species.Count)
	c.countLabel = widget.NewLabel(strconv.Itoa(c.species.Count))
	c.count.OnChange(func(v int) { w.nParticlesChanged(n, v) })
	c.row = widget.NewLayout(c.button, c.count, c.countLabel)
	w.ParticleLayout.Add(c.row)

	c.boxes = [2]*widget.Swatch{widget.NewSwatch(red.Hex()), widget.NewSwatch(red.Hex())}
	w.RelLayout.Add(c.boxes[0])
	w.RelLayout.Add(c.boxes[1])
	w.classes = append(w.classes, c)

	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i != n && j != n {
				continue
			}
			btn := widget.NewButton("", w.GetCmapColor(0))
			btn.OnClick(func() { _ = w.ShowRelationshipSlider(i, j) })
			w.RelLayout.Add(btn)

			p := particle.MakePair(i, j)
			r, ok := w.relationships[p]
			if !ok {
				r = &relationship{}
				w.relationships[p] = r
			}
			r.buttons = append(r.buttons, btn)
		}
	}

	if n == 1 {
		w.SaveButton.Show()
		w.ResetButton.Show()
	}
	if n >= w.cfg.MaxClasses {
		w.Adder.Hide()
	}
	w.logger.Debug("class added", zap.Int("class", n))
	return nil
}

func (w *Window) classAt(i int) (*class, error) {
	if i < 1 || i > len(w.classes) {
		return nil, fmt.Errorf("%w: no class %d", particle.ErrInvalidArgument, i)
	}
	return w.classes[i-1], nil
}

func (w *Window) nParticlesChanged(i, v int) {
	c := w.classes[i-1]
	c.species.Count = v
	c.countLabel.SetText(strconv.Itoa(v))
}

// SetClassCount moves the count slider of class i.
func (w *Window) SetClassCount(i, n int) error {
	c, err := w.classAt(i)
	if err != nil {
		return w.fail("set count", err)
	}
	if n < c.count.Min || n > c.count.Max {
		return w.fail("set count", fmt.Errorf("%w: count %d outside [%d, %d]", particle.ErrInvalidArgument, n, c.count.Min, c.count.Max))
	}
	c.count.SetValue(n)
	return nil
}

// SetClassColor recolors the class button and its two matrix header swatches.
func (w *Window) SetClassColor(i int, color particle.RGBA) error {
	c, err := w.classAt(i)
	if err != nil {
		return w.fail("set color", err)
	}
	if !color.Valid() {
		return w.fail("set color", fmt.Errorf("%w: color %v out of range", particle.ErrInvalidArgument, color))
	}
	c.species.Color = color
	hex := color.Hex()
	c.button.SetColor(hex)
	for _, b := range c.boxes {
		b.SetColor(hex)
	}
	return nil
}

// SetClassConfig updates "mass" or "restitution" of class i.
func (w *Window) SetClassConfig(i int, key string, val float64) error {
	c, err := w.classAt(i)
	if err != nil {
		return w.fail("set "+key, err)
	}
	next := c.species
	switch key {
	case "mass":
		next.Mass = val
	case "restitution":
		next.Restitution = val
	default:
		return w.fail("set "+key, fmt.Errorf("%w: unknown class setting %q", particle.ErrInvalidArgument, key))
	}
	if err := next.Validate(); err != nil {
		return w.fail("set "+key, err)
	}
	c.species = next

	if p := w.popup; p != nil && p.Kind == ColorPopup && p.Class == i {
		switch key {
		case "mass":
			p.Mass.Sync(int(val))
			p.MassLabel.SetText(strconv.Itoa(int(val)))
		case "restitution":
			p.Restitution.Sync(int(val * float64(w.cfg.RestitutionSteps)))
			p.RestitutionLabel.SetText(fmt.Sprintf("%.2f", val))
		}
	}
	return nil
}

// ShowColorPicker opens the color, mass and restitution popup for class i.
func (w *Window) ShowColorPicker(i int) error {
	c, err := w.classAt(i)
	if err != nil {
		return w.fail("color picker", err)
	}
	w.ClosePopup()

	steps := w.cfg.RestitutionSteps
	p := &Popup{
		Kind:             ColorPopup,
		Class:            i,
		Swatch:           swatchIndex(c.species.Color.Hex()),
		Mass:             widget.NewSlider(w.cfg.MinMass, w.cfg.MaxMass, int(c.species.Mass)),
		MassLabel:        widget.NewLabel(strconv.Itoa(int(c.species.Mass))),
		Restitution:      widget.NewSlider(0, steps, int(c.species.Restitution*float64(steps))),
		RestitutionLabel: widget.NewLabel(fmt.Sprintf("%.2f", c.species.Restitution)),
	}
	p.Mass.OnChange(func(v int) {
		if w.SetClassConfig(i, "mass", float64(v)) == nil {
			p.MassLabel.SetText(strconv.Itoa(v))
		}
	})
	p.Restitution.OnChange(func(v int) {
		r := float64(v) / float64(steps)
		if w.SetClassConfig(i, "restitution", r) == nil {
			p.RestitutionLabel.SetText(fmt.Sprintf("%.2f", r))
		}
	})
	p.Layout = widget.NewLayout(
		widget.NewLayout(p.Mass, p.MassLabel),
		widget.NewLayout(p.Restitution, p.RestitutionLabel),
	)
	w.popup = p
	return nil
}

func swatchIndex(hex string) int {
	for i, s := range colormap.Swatches {
		if s == hex {
			return i
		}
	}
	return -1
}

// PickSwatch moves the color picker selection by delta and applies it.
func (w *Window) PickSwatch(delta int) error {
	p := w.popup
	if p == nil || p.Kind != ColorPopup {
		return nil
	}
	next := p.Swatch + delta
	if p.Swatch < 0 && delta > 0 {
		next = delta - 1
	}
	n := len(colormap.Swatches)
	return w.SelectSwatch((next%n + n) % n)
}

// SelectSwatch applies quick-pick color i to the class of the open color picker.
func (w *Window) SelectSwatch(i int) error {
	p := w.popup
	if p == nil || p.Kind != ColorPopup {
		return nil
	}
	if i < 0 || i >= len(colormap.Swatches) {
		return w.fail("pick color", fmt.Errorf("%w: no swatch %d", particle.ErrInvalidArgument, i))
	}
	color, err := colormap.ParseHex(colormap.Swatches[i])
	if err != nil {
		return w.fail("pick color", err)
	}
	if err := w.SetClassColor(p.Class, color); err != nil {
		return err
	}
	p.Swatch = i
	return nil
}

// ShowRelationshipSlider opens the slider for the relationship between classes i and j.
func (w *Window) ShowRelationshipSlider(i, j int) error {
	r, ok := w.relationships[particle.MakePair(i, j)]
	if !ok {
		return w.fail("relationship", fmt.Errorf("%w: no relationship %d-%d", particle.ErrInvalidArgument, i, j))
	}
	w.ClosePopup()

	half := w.cfg.Relationships / 2
	p := &Popup{
		Kind:       RelationshipPopup,
		Pair:       particle.MakePair(i, j),
		Value:      widget.NewSlider(-half, half, r.value),
		ValueLabel: widget.NewLabel(strconv.Itoa(r.value)),
	}
	p.Value.OnChange(func(v int) { _ = w.SetRelationship(i, j, v) })
	p.Layout = widget.NewLayout(p.Value, p.ValueLabel)
	w.popup = p
	return nil
}

// SetRelationship stores v for the pair and recolors its matrix buttons.
func (w *Window) SetRelationship(i, j, v int) error {
	pair := particle.MakePair(i, j)
	r, ok := w.relationships[pair]
	if !ok {
		return w.fail("relationship", fmt.Errorf("%w: no relationship %d-%d", particle.ErrInvalidArgument, i, j))
	}
	half := w.cfg.Relationships / 2
	if v < -half || v > half {
		return w.fail("relationship", fmt.Errorf("%w: value %d outside [%d, %d]", particle.ErrInvalidArgument, v, -half, half))
	}
	r.value = v
	hex := w.GetCmapColor(v)
	for _, b := range r.buttons {
		b.SetColor(hex)
	}
	if p := w.popup; p != nil && p.Kind == RelationshipPopup && p.Pair == pair {
		p.Value.Sync(v)
		p.ValueLabel.SetText(strconv.Itoa(v))
	}
	return nil
}

// ClosePopup disposes the open popup, if any.
func (w *Window) ClosePopup() {
	if w.popup == nil {
		return
	}
	w.ClearLayout(w.popup.Layout)
	w.popup.Layout.Dispose()
	w.popup = nil
}

// SetPreviewCount shows n generated particles on the canvas.
func (w *Window) SetPreviewCount(n int) error {
	if err := w.preview(n); err != nil {
		return err
	}
	w.Preview.Sync(n)
	w.PreviewLabel.SetText(strconv.Itoa(w.Preview.Value))
	return nil
}

func (w *Window) preview(n int) error {
	set, err := w.data.ParticleSet(n)
	if err != nil {
		return w.fail("preview", err)
	}
	if err := w.canvas.InsertSet(set); err != nil {
		return w.fail("preview", err)
	}
	w.running = false
	w.system = nil
	w.PreviewLabel.SetText(strconv.Itoa(n))
	w.Status = fmt.Sprintf("preview: %d particles", n)
	return nil
}

// Settings collects the current classes and the full relationship matrix.
func (w *Window) Settings() config.Settings {
	s := config.Settings{Classes: make([]particle.Species, len(w.classes))}
	rel := particle.Relationships{}
	for i, c := range w.classes {
		s.Classes[i] = c.species
	}
	for p, r := range w.relationships {
		rel[p] = r.value
	}
	s.Relationships = config.EntriesFromMap(rel)
	return s
}

// Saved persists the settings and starts a simulation built from them on the canvas.
func (w *Window) Saved() error {
	if len(w.classes) == 0 {
		return w.fail("save", fmt.Errorf("%w: no particle classes", particle.ErrInvalidArgument))
	}
	settings := w.Settings()

	id := ""
	if w.store != nil {
		var err error
		if id, err = w.store.Save(settings, ""); err != nil {
			return w.fail("save", err)
		}
		w.LastSave = id
	}

	opts := life.Options{
		Radius:      w.sim.Radius,
		Dt:          1 / float64(w.cfg.TickRate),
		BrownianStd: w.sim.BrownianStd,
		MinVel:      w.sim.MinVel,
		MaxVel:      w.sim.MaxVel,
		Seed:        w.seed,
	}
	sys, err := life.New(w.sim.Width, w.sim.Height, settings.Classes, settings.RelationshipMap(), opts)
	if err != nil {
		return w.fail("save", err)
	}
	if err := w.canvas.InsertSet(sys.ParticleSet()); err != nil {
		return w.fail("save", err)
	}
	w.system = sys
	w.running = true
	w.Status = fmt.Sprintf("running %d particles", sys.Len())
	if id != "" {
		w.Status += " (saved " + id + ")"
	}
	w.logger.Info("settings saved", zap.String("id", id), zap.Int("classes", len(settings.Classes)), zap.Int("particles", sys.Len()))
	return nil
}

// Tick advances a running simulation and pushes positions to the canvas.
func (w *Window) Tick() error {
	if !w.running || w.system == nil {
		return nil
	}
	w.system.Step()
	if err := w.canvas.UpdatePositions(w.system.Positions()); err != nil {
		w.running = false
		return w.fail("tick", err)
	}
	return nil
}

// Reset drops every class and relationship, disposes their widgets and empties the canvas.
func (w *Window) Reset() {
	w.ClosePopup()
	w.classes = nil
	w.relationships = make(map[particle.Pair]*relationship)
	w.ClearLayout(w.ParticleLayout)
	w.ClearLayout(w.RelLayout)
	w.canvas.Reset()
	w.system = nil
	w.running = false
	w.Adder.Show()
	w.SaveButton.Hide()
	w.ResetButton.Hide()
	w.Status = "reset"
	w.logger.Debug("window reset")
}

// ClearLayout removes and disposes every child of l, descending into nested layouts.
func (w *Window) ClearLayout(l *widget.Layout) {
	for l.Count() > 0 {
		child := l.TakeAt(0)
		if nested, ok := child.(*widget.Layout); ok {
			w.ClearLayout(nested)
		}
		child.Dispose()
	}
}

// ApplySettings replaces the current controls with the given settings.
func (w *Window) ApplySettings(s config.Settings) error {
	if len(s.Classes) > w.cfg.MaxClasses {
		return w.fail("load", fmt.Errorf("%w: %d classes exceed the limit of %d", particle.ErrInvalidArgument, len(s.Classes), w.cfg.MaxClasses))
	}
	for i, c := range s.Classes {
		if err := c.Validate(); err != nil {
			return w.fail("load", fmt.Errorf("class %d: %w", i+1, err))
		}
		if c.Count < 1 || c.Count > w.cfg.MaxParticles {
			return w.fail("load", fmt.Errorf("%w: class %d count %d outside [1, %d]", particle.ErrInvalidArgument, i+1, c.Count, w.cfg.MaxParticles))
		}
	}
	classes, half := len(s.Classes), w.cfg.Relationships/2
	for _, e := range s.Relationships {
		if e.I < 1 || e.J < 1 || e.I > classes || e.J > classes {
			return w.fail("load", fmt.Errorf("%w: no relationship %d-%d among %d classes", particle.ErrInvalidArgument, e.I, e.J, classes))
		}
		if e.Value < -half || e.Value > half {
			return w.fail("load", fmt.Errorf("%w: relationship %d-%d value %d outside [%d, %d]", particle.ErrInvalidArgument, e.I, e.J, e.Value, -half, half))
		}
	}
	w.Reset()
	for i, c := range s.Classes {
		if err := w.AddParticleColor(); err != nil {
			return err
		}
		n := i + 1
		if err := w.SetClassColor(n, c.Color); err != nil {
			return err
		}
		if err := w.SetClassCount(n, c.Count); err != nil {
			return err
		}
		w.classes[i].species.Mass = c.Mass
		w.classes[i].species.Restitution = c.Restitution
	}
	for _, e := range s.Relationships {
		if err := w.SetRelationship(e.I, e.J, e.Value); err != nil {
			return err
		}
	}
	w.Status = fmt.Sprintf("loaded %d classes", len(s.Classes))
	return nil
}

func (w *Window) fail(op string, err error) error {
	w.Status = fmt.Sprintf("%s: %v", op, err)
	w.logger.Warn(op+" failed", zap.Error(err))
	return err
}
