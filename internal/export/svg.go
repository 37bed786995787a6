package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/particle"
)

const DefaultBackground = "#24242b"

// ParticlesToSVG draws every particle as a circle in its own color. The x/y
// bounds of the set are fitted to the image with 10% padding; z is ignored.
func ParticlesToSVG(set particle.ParticleSet, width, height int, background string) (string, error) {
	if err := set.Validate(); err != nil {
		return "", err
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("%w: image size %dx%d", particle.ErrInvalidArgument, width, height)
	}
	if background == "" {
		background = DefaultBackground
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	if set.Len() > 0 {
		lo, hi := set.Bounds()
		minX, maxX, minY, maxY := pad(lo.X, hi.X, lo.Y, hi.Y)
		rangeX, rangeY := maxX-minX, maxY-minY
		// keep aspect ratio
		scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
		offX := (float64(width) - rangeX*scale) / 2
		offY := (float64(height) - rangeY*scale) / 2

		for i, p := range set.Positions {
			x := offX + (p.X-minX)*scale
			y := float64(height) - offY - (p.Y-minY)*scale
			c := set.Colors[i]
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.2f"/>
`, x, y, math.Max(0.5, set.Sizes[i]/2), c.Hex(), c.A))
		}
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// SurfaceToSVG converts a rendered braille surface to SVG, one circle per lit dot.
func SurfaceToSVG(s *canvas.BrailleSurface, scale float64) string {
	if s == nil {
		return ""
	}

	width := float64(s.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(s.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, DefaultBackground))

	dotRadius := scale * 0.4
	for y := 0; y < s.Height*4; y++ {
		for x := 0; x < s.Width*2; x++ {
			if !s.Lit(x, y) {
				continue
			}
			fill := s.CellColor(x/2, y/4)
			if fill == "" {
				fill = "#ffffff"
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	minX, maxX, minY, maxY := pad(0, float64(len(values)-1), minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, DefaultBackground, strokeColor))

	for i, v := range values {
		x := (float64(i) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// pad widens both ranges by 10% and gives empty ranges a unit width.
func pad(minX, maxX, minY, maxY float64) (float64, float64, float64, float64) {
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}
