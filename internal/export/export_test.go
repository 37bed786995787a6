package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/particle"
)

func sampleSet() particle.ParticleSet {
	return particle.ParticleSet{
		Positions: []particle.Vec3{{X: 0, Y: 0}, {X: 10, Y: 5, Z: 2}},
		Colors:    []particle.RGBA{{R: 1, A: 1}, {B: 1, A: 0.5}},
		Sizes:     []float64{4, 8},
	}
}

func TestParticlesToSVG(t *testing.T) {
	svg, err := ParticlesToSVG(sampleSet(), 200, 100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	for _, want := range []string{`fill="#ff0000"`, `fill="#0000ff"`, `fill-opacity="0.50"`, DefaultBackground} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected svg to contain %s", want)
		}
	}
}

func TestParticlesToSVG_Errors(t *testing.T) {
	bad := sampleSet()
	bad.Sizes = bad.Sizes[:1]
	if _, err := ParticlesToSVG(bad, 10, 10, ""); !errors.Is(err, particle.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
	if _, err := ParticlesToSVG(sampleSet(), 0, 10, ""); !errors.Is(err, particle.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestParticlesToSVG_Empty(t *testing.T) {
	svg, err := ParticlesToSVG(particle.ParticleSet{}, 10, 10, "#000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(svg, "<circle") {
		t.Error("expected no circles for an empty set")
	}
}

func TestSurfaceToSVG(t *testing.T) {
	if SurfaceToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil surface")
	}
	s := canvas.NewBrailleSurface(2, 1)
	s.Set(0, 0, "#00ff00")
	s.Set(3, 3, "")
	svg := SurfaceToSVG(s, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `fill="#00ff00"`) {
		t.Error("expected the cell color on the lit dot")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single value")
	}
	svg := SeriesToSVG([]float64{1, 2, 2, 3}, 100, 50, "#00ccff")
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 line segments, got %d", strings.Count(svg, " L"))
	}
	if !strings.Contains(svg, `stroke="#00ccff"`) {
		t.Error("expected stroke color")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "x,y,z,r,g,b,a,size" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if got := strings.Join(rows[2], ","); got != "10,5,2,0,0,1,0.5,8" {
		t.Errorf("expected 10,5,2,0,0,1,0.5,8, got %s", got)
	}
}
