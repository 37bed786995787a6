package window_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/colormap"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/fakedata"
	"github.com/san-kum/partisim/internal/middleware"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/storage"
	"github.com/san-kum/partisim/internal/widget"
	"github.com/san-kum/partisim/internal/window"
)

type recordingStore struct {
	saved []config.Settings
	err   error
}

func (s *recordingStore) Save(settings config.Settings, note string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, settings)
	return "settings_test", nil
}

var _ = Describe("Window", func() {
	var (
		w     *window.Window
		cv    *canvas.Canvas
		store *recordingStore
	)

	BeforeEach(func() {
		gen, err := fakedata.New(fakedata.WithSeed(7))
		Expect(err).NotTo(HaveOccurred())
		cv = canvas.New(canvas.NewBrailleSurface(40, 20), canvas.DefaultScaling)
		store = &recordingStore{}
		cfg := config.DefaultConfig()
		cfg.Seed = 3
		w, err = window.New(window.Options{
			Config: cfg,
			Data:   middleware.New(gen, nil),
			Canvas: cv,
			Store:  store,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a data source and a canvas", func() {
		_, err := window.New(window.Options{})
		Expect(errors.Is(err, particle.ErrInvalidArgument)).To(BeTrue())
	})

	It("rejects an unknown colormap", func() {
		cfg := config.DefaultConfig()
		cfg.Window.Colormap = "rainbow"
		_, err := window.New(window.Options{Config: cfg, Data: &middleware.Middleware{}, Canvas: cv})
		Expect(err).To(MatchError(particle.ErrInvalidArgument))
	})

	It("validates the config", func() {
		cfg := config.DefaultConfig()
		cfg.Window.TickRate = 0
		_, err := window.New(window.Options{Config: cfg, Data: &middleware.Middleware{}, Canvas: cv})
		Expect(err).To(MatchError(particle.ErrInvalidArgument))

		cfg = config.DefaultConfig()
		cfg.Window.Relationships = -2
		_, err = window.New(window.Options{Config: cfg, Data: &middleware.Middleware{}, Canvas: cv})
		Expect(err).To(MatchError(particle.ErrInvalidArgument))
	})

	It("starts with no classes and only the adder visible", func() {
		Expect(w.NumClasses()).To(Equal(0))
		Expect(w.Adder.Visible()).To(BeTrue())
		Expect(w.SaveButton.Visible()).To(BeFalse())
		Expect(w.ResetButton.Visible()).To(BeFalse())
		Expect(w.Matrix()).To(BeEmpty())
	})

	Describe("AddParticleColor", func() {
		It("adds a red class with half the maximum count", func() {
			Expect(w.AddParticleColor()).To(Succeed())

			classes := w.Classes()
			Expect(classes).To(HaveLen(1))
			Expect(classes[0].Color).To(Equal("#ff0000"))
			Expect(classes[0].Count).To(Equal(config.DefaultMaxParticles / 2))
			Expect(classes[0].CountLabel).To(Equal("375"))
			Expect(classes[0].Mass).To(Equal(1.0))
			Expect(classes[0].Restitution).To(Equal(1.0))

			Expect(w.SaveButton.Visible()).To(BeTrue())
			Expect(w.ResetButton.Visible()).To(BeTrue())
			Expect(w.ParticleLayout.Count()).To(Equal(1))
			Expect(w.RelLayout.Count()).To(Equal(3))
		})

		It("grows the relationship matrix by a row and a column", func() {
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.AddParticleColor()).To(Succeed())

			Expect(w.Matrix()).To(HaveLen(2))
			Expect(w.RelationshipButtons(1, 2)).To(HaveLen(2))
			Expect(w.RelationshipButtons(2, 1)).To(HaveLen(2))
			Expect(w.RelationshipButtons(1, 1)).To(HaveLen(1))
			Expect(w.RelationshipButtons(2, 2)).To(HaveLen(1))
			Expect(w.RelLayout.Count()).To(Equal(3 + 2 + 3))
		})

		It("hides the adder and refuses more classes when full", func() {
			for i := 0; i < config.DefaultMaxClasses; i++ {
				w.Adder.Click()
			}
			Expect(w.NumClasses()).To(Equal(config.DefaultMaxClasses))
			Expect(w.Adder.Visible()).To(BeFalse())

			err := w.AddParticleColor()
			Expect(errors.Is(err, particle.ErrInvalidArgument)).To(BeTrue())
			Expect(w.Status).To(ContainSubstring("add class"))

			w.Adder.Click()
			Expect(w.NumClasses()).To(Equal(config.DefaultMaxClasses))
		})
	})

	Describe("class settings", func() {
		BeforeEach(func() {
			Expect(w.AddParticleColor()).To(Succeed())
		})

		It("updates the count and its label", func() {
			Expect(w.SetClassCount(1, 100)).To(Succeed())
			Expect(w.Classes()[0].Count).To(Equal(100))
			Expect(w.Classes()[0].CountLabel).To(Equal("100"))

			Expect(w.SetClassCount(1, 0)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.SetClassCount(2, 10)).To(MatchError(particle.ErrInvalidArgument))
		})

		It("recolors the class", func() {
			Expect(w.SetClassColor(1, particle.RGBA{G: 1, A: 1})).To(Succeed())
			Expect(w.Classes()[0].Color).To(Equal("#00ff00"))
			Expect(w.SetClassColor(1, particle.RGBA{R: 2})).To(MatchError(particle.ErrInvalidArgument))
		})

		It("validates mass and restitution", func() {
			Expect(w.SetClassConfig(1, "mass", 4)).To(Succeed())
			Expect(w.SetClassConfig(1, "restitution", 0.25)).To(Succeed())
			Expect(w.Classes()[0].Mass).To(Equal(4.0))
			Expect(w.Classes()[0].Restitution).To(Equal(0.25))

			Expect(w.SetClassConfig(1, "mass", 0)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.SetClassConfig(1, "restitution", 1.5)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.SetClassConfig(1, "charge", 1)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.Classes()[0].Mass).To(Equal(4.0))
		})

		It("drives the class through the color picker popup", func() {
			Expect(w.ShowColorPicker(1)).To(Succeed())
			p := w.Popup()
			Expect(p).NotTo(BeNil())
			Expect(p.Kind).To(Equal(window.ColorPopup))
			Expect(p.Swatch).To(Equal(0))

			p.Mass.SetValue(6)
			p.Restitution.SetValue(50)
			Expect(w.Classes()[0].Mass).To(Equal(6.0))
			Expect(w.Classes()[0].Restitution).To(Equal(0.5))
			Expect(p.RestitutionLabel.Text).To(Equal("0.50"))

			Expect(w.PickSwatch(1)).To(Succeed())
			Expect(w.Classes()[0].Color).To(Equal(colormap.Swatches[1]))
			Expect(w.PickSwatch(-2)).To(Succeed())
			Expect(w.Classes()[0].Color).To(Equal(colormap.Swatches[len(colormap.Swatches)-1]))

			Expect(w.SelectSwatch(3)).To(Succeed())
			Expect(w.Classes()[0].Color).To(Equal(colormap.Swatches[3]))
			Expect(p.Swatch).To(Equal(3))
			Expect(w.SelectSwatch(99)).To(MatchError(particle.ErrInvalidArgument))

			w.ClosePopup()
			Expect(w.Popup()).To(BeNil())
			Expect(p.Mass.Disposed()).To(BeTrue())
			Expect(p.Layout.Count()).To(Equal(0))
		})

		It("opens the picker from the class button", func() {
			w.ParticleLayout.Children()[0].(*widget.Layout).Children()[0].(*widget.Button).Click()
			Expect(w.Popup()).NotTo(BeNil())
			Expect(w.Popup().Class).To(Equal(1))
		})
	})

	Describe("relationships", func() {
		BeforeEach(func() {
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.AddParticleColor()).To(Succeed())
		})

		It("stores a symmetric value and recolors every bound button", func() {
			Expect(w.SetRelationship(2, 1, 3)).To(Succeed())
			Expect(w.Relationship(1, 2)).To(Equal(3))
			for _, b := range w.RelationshipButtons(1, 2) {
				Expect(b.Color).To(Equal(w.GetCmapColor(3)))
			}
			Expect(w.Matrix()[0][1]).To(Equal(w.GetCmapColor(3)))
			Expect(w.Matrix()[1][0]).To(Equal(w.GetCmapColor(3)))
		})

		It("rejects out of range values and unknown pairs", func() {
			Expect(w.SetRelationship(1, 2, 6)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.SetRelationship(1, 3, 1)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.ShowRelationshipSlider(3, 3)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.Relationship(1, 2)).To(Equal(0))
		})

		It("follows the relationship slider", func() {
			Expect(w.ShowRelationshipSlider(1, 2)).To(Succeed())
			p := w.Popup()
			Expect(p.Kind).To(Equal(window.RelationshipPopup))

			p.Value.SetValue(-2)
			Expect(w.Relationship(2, 1)).To(Equal(-2))
			Expect(p.ValueLabel.Text).To(Equal("-2"))

			Expect(w.SetRelationship(1, 2, 4)).To(Succeed())
			Expect(p.Value.Value).To(Equal(4))
		})
	})

	Describe("GetCmapColor", func() {
		It("is deterministic and clamps to the palette ends", func() {
			Expect(w.GetCmapColor(2)).To(Equal(w.GetCmapColor(2)))
			Expect(w.GetCmapColor(-100)).To(Equal(w.GetCmapColor(-5)))
			Expect(w.GetCmapColor(100)).To(Equal(w.GetCmapColor(5)))
			Expect(w.GetCmapColor(-5)).NotTo(Equal(w.GetCmapColor(5)))
			Expect(w.GetCmapColor(0)).To(HavePrefix("#"))
		})
	})

	Describe("SetPreviewCount", func() {
		It("requests particles and inserts them into the canvas", func() {
			Expect(w.SetPreviewCount(200)).To(Succeed())
			Expect(cv.Len()).To(Equal(200))
			Expect(cv.State()).To(Equal(canvas.Populated))
			Expect(w.Preview.Value).To(Equal(200))
			Expect(w.PreviewLabel.Text).To(Equal("200"))
			Expect(w.Running()).To(BeFalse())
		})

		It("reports generator errors on the status line", func() {
			Expect(w.SetPreviewCount(-1)).To(MatchError(particle.ErrInvalidArgument))
			Expect(w.Status).To(ContainSubstring("preview"))
		})

		It("previews when the slider moves", func() {
			w.Preview.SetValue(120)
			Expect(cv.Len()).To(Equal(120))
		})
	})

	Describe("Saved", func() {
		It("needs at least one class", func() {
			Expect(w.Saved()).To(MatchError(particle.ErrInvalidArgument))
			Expect(store.saved).To(BeEmpty())
		})

		It("persists the settings and starts the simulation", func() {
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.SetClassCount(1, 10)).To(Succeed())
			Expect(w.SetClassCount(2, 20)).To(Succeed())
			Expect(w.SetRelationship(1, 2, -3)).To(Succeed())

			w.SaveButton.Click()
			Expect(store.saved).To(HaveLen(1))
			Expect(store.saved[0].TotalParticles()).To(Equal(30))
			Expect(store.saved[0].RelationshipMap().Get(2, 1)).To(Equal(-3))
			Expect(w.LastSave).To(Equal("settings_test"))

			Expect(w.Running()).To(BeTrue())
			Expect(cv.Len()).To(Equal(30))

			before := cv.Snapshot().Positions
			Expect(w.Tick()).To(Succeed())
			Expect(w.System().Steps()).To(Equal(1))
			Expect(cv.Snapshot().Positions).NotTo(Equal(before))
		})

		It("surfaces store failures", func() {
			store.err = errors.New("disk full")
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.Saved()).To(MatchError("disk full"))
			Expect(w.Status).To(ContainSubstring("disk full"))
			Expect(w.Running()).To(BeFalse())
		})

		It("stops the simulation when a preview replaces it", func() {
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.Saved()).To(Succeed())
			Expect(w.SetPreviewCount(5)).To(Succeed())
			Expect(w.Running()).To(BeFalse())
			Expect(w.Tick()).To(Succeed())
			Expect(cv.Len()).To(Equal(5))
		})
	})

	Describe("Reset", func() {
		It("disposes every control and empties the canvas", func() {
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.AddParticleColor()).To(Succeed())
			row := w.ParticleLayout.Children()[0].(*widget.Layout)
			slider := row.Children()[1].(*widget.Slider)
			relButton := w.RelationshipButtons(1, 2)[0]
			Expect(w.Saved()).To(Succeed())

			w.ResetButton.Click()

			Expect(w.NumClasses()).To(Equal(0))
			Expect(w.Matrix()).To(BeEmpty())
			Expect(w.ParticleLayout.Count()).To(Equal(0))
			Expect(w.RelLayout.Count()).To(Equal(0))
			Expect(slider.Disposed()).To(BeTrue())
			Expect(row.Disposed()).To(BeTrue())
			Expect(relButton.Disposed()).To(BeTrue())
			Expect(cv.State()).To(Equal(canvas.Empty))
			Expect(w.Running()).To(BeFalse())
			Expect(w.Adder.Visible()).To(BeTrue())
			Expect(w.SaveButton.Visible()).To(BeFalse())
			Expect(w.ResetButton.Visible()).To(BeFalse())
		})

		It("is idempotent", func() {
			Expect(w.AddParticleColor()).To(Succeed())
			w.Reset()
			w.Reset()
			Expect(w.NumClasses()).To(Equal(0))
			Expect(cv.State()).To(Equal(canvas.Empty))
			Expect(w.AddParticleColor()).To(Succeed())
			Expect(w.NumClasses()).To(Equal(1))
		})
	})

	Describe("ClearLayout", func() {
		It("descends into nested layouts", func() {
			inner := widget.NewSlider(0, 10, 5)
			nested := widget.NewLayout(inner, widget.NewLabel("x"))
			fired := false
			inner.OnChange(func(int) { fired = true })
			outer := widget.NewLayout(nested, widget.NewButton("b", ""))

			w.ClearLayout(outer)

			Expect(outer.Count()).To(Equal(0))
			Expect(nested.Count()).To(Equal(0))
			Expect(nested.Disposed()).To(BeTrue())
			inner.SetValue(7)
			Expect(fired).To(BeFalse())
		})
	})

	Describe("settings", func() {
		It("applies a preset and reads it back", func() {
			preset, ok := config.GetPreset("duo")
			Expect(ok).To(BeTrue())

			Expect(w.ApplySettings(preset)).To(Succeed())
			Expect(w.NumClasses()).To(Equal(2))
			Expect(w.Relationship(1, 2)).To(Equal(-2))
			Expect(w.Settings()).To(Equal(preset))
		})

		It("refuses too many classes", func() {
			s := config.Settings{Classes: make([]particle.Species, config.DefaultMaxClasses+1)}
			Expect(w.ApplySettings(s)).To(MatchError(particle.ErrInvalidArgument))
		})

		Context("with invalid settings", func() {
			var before config.Settings

			BeforeEach(func() {
				preset, _ := config.GetPreset("triad")
				Expect(w.ApplySettings(preset)).To(Succeed())
				before = w.Settings()
			})

			species := func(count int) particle.Species {
				return particle.Species{Color: particle.RGBA{R: 1, A: 1}, Count: count, Mass: 1, Restitution: 1}
			}

			DescribeTable("rejects them before touching the controls",
				func(s config.Settings) {
					Expect(w.ApplySettings(s)).To(MatchError(particle.ErrInvalidArgument))
					Expect(w.NumClasses()).To(Equal(3))
					Expect(w.Settings()).To(Equal(before))
					Expect(w.Status).To(HavePrefix("load:"))
				},
				Entry("a relationship to a missing class", config.Settings{
					Classes:       []particle.Species{species(10)},
					Relationships: []config.RelationshipEntry{{I: 1, J: 4, Value: 1}},
				}),
				Entry("a relationship value out of range", config.Settings{
					Classes:       []particle.Species{species(10), species(10)},
					Relationships: []config.RelationshipEntry{{I: 1, J: 2, Value: 6}},
				}),
				Entry("an empty class", config.Settings{
					Classes: []particle.Species{species(0)},
				}),
				Entry("a class over the particle limit", config.Settings{
					Classes: []particle.Species{species(config.DefaultMaxParticles + 1)},
				}),
			)
		})

		It("round-trips through the settings store", func() {
			dir := GinkgoT().TempDir()
			st := storage.New(dir)
			Expect(st.Init()).To(Succeed())

			preset, _ := config.GetPreset("triad")
			Expect(w.ApplySettings(preset)).To(Succeed())
			id, err := st.Save(w.Settings(), "")
			Expect(err).NotTo(HaveOccurred())

			loaded, err := st.Load(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(w.Settings()))
		})
	})
})
