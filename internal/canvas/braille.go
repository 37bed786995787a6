package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/partisim/internal/particle"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// DefaultDotScale converts particle sizes to dot radii in sub-pixels.
const DefaultDotScale = 0.1

const maxDotRadius = 4

// BrailleSurface rasterizes particles into braille cells. Each cell takes the
// color of the last particle drawn into it.
type BrailleSurface struct {
	Width, Height int
	DotScale      float64
	Camera        *Camera

	grid   [][]rune
	colors [][]string
	data   particle.ParticleSet
	styles map[string]lipgloss.Style
}

func NewBrailleSurface(w, h int) *BrailleSurface {
	s := &BrailleSurface{
		DotScale: DefaultDotScale,
		Camera:   NewCamera(),
		styles:   make(map[string]lipgloss.Style),
	}
	s.Resize(w, h)
	return s
}

// Resize reallocates the grid in character cells.
func (s *BrailleSurface) Resize(w, h int) {
	s.Width, s.Height = max(1, w), max(1, h)
	s.grid = make([][]rune, s.Height)
	s.colors = make([][]string, s.Height)
	for i := range s.grid {
		s.grid[i] = make([]rune, s.Width)
		s.colors[i] = make([]string, s.Width)
	}
	s.clearGrid()
}

func (s *BrailleSurface) SetData(set particle.ParticleSet) { s.data = set }

// Fit frames the bounding box with the camera.
func (s *BrailleSurface) Fit(lo, hi particle.Vec3) { s.Camera.Fit(lo, hi) }

// Clear drops the data and blanks the grid.
func (s *BrailleSurface) Clear() {
	s.data = particle.ParticleSet{}
	s.clearGrid()
}

func (s *BrailleSurface) clearGrid() {
	for i := range s.grid {
		for j := range s.grid[i] {
			s.grid[i][j] = blank
			s.colors[i][j] = ""
		}
	}
}

// Redraw rasterizes the current data.
func (s *BrailleSurface) Redraw() {
	s.clearGrid()
	pw, ph := s.Width*2, s.Height*4
	for i, p := range s.data.Positions {
		x, y, ok := s.Camera.Project(p, pw, ph)
		if !ok {
			continue
		}
		hex := ""
		if i < len(s.data.Colors) {
			hex = s.data.Colors[i].Hex()
		}
		r := 0
		if i < len(s.data.Sizes) {
			r = min(maxDotRadius, int(s.data.Sizes[i]*s.DotScale))
		}
		s.dot(x, y, r, hex)
	}
}

func (s *BrailleSurface) dot(cx, cy, r int, hex string) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				s.Set(cx+dx, cy+dy, hex)
			}
		}
	}
}

// Set lights the sub-pixel (x, y). The grid is (Width*2) x (Height*4) sub-pixels.
func (s *BrailleSurface) Set(x, y int, hex string) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= s.Width || row >= s.Height {
		return
	}
	s.grid[row][col] |= pixelMap[y%4][x%2]
	if hex != "" {
		s.colors[row][col] = hex
	}
}

// Lit reports whether sub-pixel (x, y) is set.
func (s *BrailleSurface) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= s.Width || y/4 >= s.Height {
		return false
	}
	return s.grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// CellColor is the color of the character cell at (col, row), "" when unset.
func (s *BrailleSurface) CellColor(col, row int) string {
	if col < 0 || row < 0 || col >= s.Width || row >= s.Height {
		return ""
	}
	return s.colors[row][col]
}

// Plain renders the grid without colors.
func (s *BrailleSurface) Plain() string {
	var b strings.Builder
	for _, row := range s.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// String renders the grid, coloring runs of cells that share a color.
func (s *BrailleSurface) String() string {
	var b strings.Builder
	for r, row := range s.grid {
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && s.colors[r][c] == s.colors[r][start] {
				continue
			}
			run := string(row[start:c])
			if hex := s.colors[r][start]; hex != "" {
				run = s.style(hex).Render(run)
			}
			b.WriteString(run)
			start = c
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *BrailleSurface) style(hex string) lipgloss.Style {
	st, ok := s.styles[hex]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		s.styles[hex] = st
	}
	return st
}

// Camera is an orthographic camera that frames a box and can rotate around it.
type Camera struct {
	Center     particle.Vec3
	Span       float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Span: 1, Zoom: 1}
}

func (c *Camera) Fit(lo, hi particle.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	d := hi.Sub(lo)
	c.Span = math.Max(d.X, math.Max(d.Y, d.Z))
	if c.Span <= 0 {
		c.Span = 1
	}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Project maps a world point into a sw x sh pixel area.
func (c *Camera) Project(p particle.Vec3, sw, sh int) (int, int, bool) {
	p = p.Sub(c.Center)
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy

	minDim := float64(min(sw, sh))
	// Keep a margin so points on the bounds stay visible.
	scale := c.Zoom * 0.9 * (minDim - 1) / c.Span
	x := int(math.Round(p.X*scale)) + sw/2
	y := int(math.Round(-p.Y*scale)) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}
