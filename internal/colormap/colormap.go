// Package colormap samples continuous color ramps and converts between hex strings
// and particle colors.
package colormap

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/partisim/internal/particle"
)

// Ramp is a continuous color map defined by evenly spaced anchor stops.
type Ramp struct {
	Name  string
	stops []colorful.Color
}

var ramps = map[string][]string{
	"viridis":  {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":    {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"coolwarm": {"#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#edd1c2", "#f7a889", "#e26952", "#b40426"},
}

// Names lists the available ramps.
func Names() []string {
	return []string{"viridis", "magma", "coolwarm"}
}

func Get(name string) (*Ramp, error) {
	hexes, ok := ramps[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown colormap %q", particle.ErrInvalidArgument, name)
	}
	r := &Ramp{Name: name, stops: make([]colorful.Color, len(hexes))}
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, err
		}
		r.stops[i] = c
	}
	return r, nil
}

// At samples the ramp at t in [0,1]; t is clamped.
func (r *Ramp) At(t float64) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	seg := t * float64(len(r.stops)-1)
	i := int(seg)
	if i >= len(r.stops)-1 {
		return r.stops[len(r.stops)-1]
	}
	return r.stops[i].BlendLab(r.stops[i+1], seg-float64(i)).Clamped()
}

// Palette returns n evenly spaced samples, first and last included.
func (r *Ramp) Palette(n int) []colorful.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []colorful.Color{r.At(0)}
	}
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = r.At(float64(i) / float64(n-1))
	}
	return out
}

// ToRGBA converts a colorful color to an opaque particle color.
func ToRGBA(c colorful.Color) particle.RGBA {
	c = c.Clamped()
	return particle.RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

// ParseHex parses #rrggbb into an opaque particle color.
func ParseHex(s string) (particle.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return particle.RGBA{}, fmt.Errorf("%w: %v", particle.ErrInvalidArgument, err)
	}
	return ToRGBA(c), nil
}

// Swatches are the quick-pick colors offered by the color picker.
var Swatches = []string{
	"#ff0000", "#ff8800", "#ffdd00", "#33cc33", "#00cccc",
	"#0077ff", "#8844ff", "#ff44cc", "#ffffff", "#888888",
}
