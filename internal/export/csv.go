package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/partisim/internal/particle"
)

var csvHeader = []string{"x", "y", "z", "r", "g", "b", "a", "size"}

// WriteCSV writes one row per particle.
func WriteCSV(w io.Writer, set particle.ParticleSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, p := range set.Positions {
		c := set.Colors[i]
		row := []string{
			ff(p.X), ff(p.Y), ff(p.Z),
			ff(c.R), ff(c.G), ff(c.B), ff(c.A),
			ff(set.Sizes[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
