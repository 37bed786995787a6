package life

import "math"

// grid buckets particle indices into square cells on a torus.
type grid struct {
	cols, rows int
	cellW      float64
	cellH      float64
	cells      [][]int
}

func newGrid(width, height, cell float64) *grid {
	cols := max(1, int(math.Floor(width/cell)))
	rows := max(1, int(math.Floor(height/cell)))
	return &grid{
		cols:  cols,
		rows:  rows,
		cellW: width / float64(cols),
		cellH: height / float64(rows),
		cells: make([][]int, cols*rows),
	}
}

func (g *grid) cellOf(p vec2) (int, int) {
	cx := min(g.cols-1, max(0, int(p.x/g.cellW)))
	cy := min(g.rows-1, max(0, int(p.y/g.cellH)))
	return cx, cy
}

func (g *grid) rebuild(pos []vec2) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i, p := range pos {
		cx, cy := g.cellOf(p)
		g.cells[cy*g.cols+cx] = append(g.cells[cy*g.cols+cx], i)
	}
}

// neighbors returns the distinct cell ids around (cx, cy), itself included.
func (g *grid) neighbors(cx, cy int, buf []int) []int {
	buf = buf[:0]
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			id := ((cy+oy+g.rows)%g.rows)*g.cols + (cx+ox+g.cols)%g.cols
			dup := false
			for _, b := range buf {
				if b == id {
					dup = true
					break
				}
			}
			if !dup {
				buf = append(buf, id)
			}
		}
	}
	return buf
}

// pairs calls fn once for each unordered pair (i < j) closer than reach.
// dx, dy point from j to i. The grid must have been rebuilt from pos, and reach
// must not exceed the cell size.
func (g *grid) pairs(pos []vec2, reach float64, delta func(a, b vec2) (float64, float64), fn func(i, j int, dx, dy, dist float64)) {
	var buf []int
	for i, p := range pos {
		cx, cy := g.cellOf(p)
		buf = g.neighbors(cx, cy, buf)
		for _, id := range buf {
			for _, j := range g.cells[id] {
				if j <= i {
					continue
				}
				dx, dy := delta(pos[i], pos[j])
				dist := math.Hypot(dx, dy)
				if dist < reach {
					fn(i, j, dx, dy, dist)
				}
			}
		}
	}
}
