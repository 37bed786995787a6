package particle

import (
	"fmt"
	"sort"
)

// Species describes one particle class configured in the window.
type Species struct {
	Color       RGBA    `yaml:"color" json:"color"`
	Count       int     `yaml:"count" json:"count"`
	Mass        float64 `yaml:"mass" json:"mass"`
	Restitution float64 `yaml:"restitution" json:"restitution"`
}

func (s Species) Validate() error {
	if s.Mass <= 0 {
		return fmt.Errorf("%w: mass must be greater than 0, got %g", ErrInvalidArgument, s.Mass)
	}
	if s.Restitution < 0 || s.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be between 0 and 1, got %g", ErrInvalidArgument, s.Restitution)
	}
	if !s.Color.Valid() {
		return fmt.Errorf("%w: color channels must be between 0 and 1, got %v", ErrInvalidArgument, s.Color)
	}
	return CheckCount(s.Count)
}

// Pair is an unordered pair of 1-based class indices with I <= J.
type Pair struct {
	I, J int
}

func MakePair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

func (p Pair) String() string {
	return fmt.Sprintf("%d-%d", p.I, p.J)
}

// Relationships maps class pairs to an attraction value. Positive values attract,
// negative values repel, zero is neutral.
type Relationships map[Pair]int

func (r Relationships) Get(i, j int) int {
	return r[MakePair(i, j)]
}

func (r Relationships) Set(i, j, v int) {
	r[MakePair(i, j)] = v
}

// Pairs returns the keys in row-major order.
func (r Relationships) Pairs() []Pair {
	out := make([]Pair, 0, len(r))
	for p := range r {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}
