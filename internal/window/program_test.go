package window_test

import (
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/fakedata"
	"github.com/san-kum/partisim/internal/middleware"
	"github.com/san-kum/partisim/internal/window"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var _ = Describe("Program", func() {
	var (
		w       *window.Window
		surface *canvas.BrailleSurface
		m       tea.Model
	)

	send := func(keys ...string) {
		for _, k := range keys {
			m, _ = m.Update(key(k))
		}
	}

	BeforeEach(func() {
		gen, err := fakedata.New(fakedata.WithSeed(1))
		Expect(err).NotTo(HaveOccurred())
		surface = canvas.NewBrailleSurface(30, 10)
		w, err = window.New(window.Options{
			Config: config.DefaultConfig(),
			Data:   middleware.New(gen, nil),
			Canvas: canvas.New(surface, canvas.DefaultScaling),
			Store:  &recordingStore{},
		})
		Expect(err).NotTo(HaveOccurred())
		m = window.Program(w, surface)
	})

	It("schedules ticks from Init", func() {
		Expect(m.Init()).NotTo(BeNil())
	})

	It("adds classes and adjusts counts from the keyboard", func() {
		send("+", "+")
		Expect(w.NumClasses()).To(Equal(2))

		send("right")
		Expect(w.Classes()[0].Count).To(Equal(config.DefaultMaxParticles/2 + 10))
	})

	It("opens and closes popups", func() {
		send("a", "enter")
		Expect(w.Popup()).NotTo(BeNil())
		Expect(w.Popup().Kind).To(Equal(window.ColorPopup))

		send("M", "M")
		Expect(w.Classes()[0].Mass).To(Equal(3.0))
		send("esc")
		Expect(w.Popup()).To(BeNil())

		send("tab", "enter")
		Expect(w.Popup().Kind).To(Equal(window.RelationshipPopup))
		send("right")
		Expect(w.Relationship(1, 1)).To(Equal(1))
		send("enter")
		Expect(w.Popup()).To(BeNil())
	})

	It("saves, runs and resets", func() {
		send("a", "s")
		Expect(w.Running()).To(BeTrue())
		Expect(m.View()).To(ContainSubstring("running"))

		send("x")
		Expect(w.Running()).To(BeFalse())
		Expect(w.NumClasses()).To(Equal(0))
	})

	It("previews and resizes", func() {
		send("p")
		Expect(w.Canvas().Len()).To(Equal(config.DefaultPreview))

		m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		Expect(surface.Width).To(BeNumerically(">", 30))
		Expect(m.View()).To(ContainSubstring("PARTISIM"))
	})

	It("quits on q", func() {
		_, cmd := m.Update(key("q"))
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
	})
})
