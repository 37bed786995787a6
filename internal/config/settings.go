package config

import (
	"github.com/san-kum/partisim/internal/particle"
)

// Settings is everything the window lets a user configure before saving.
type Settings struct {
	Classes       []particle.Species  `yaml:"classes" json:"classes"`
	Relationships []RelationshipEntry `yaml:"relationships" json:"relationships"`
}

// RelationshipEntry is one cell of the relationship matrix (1-based classes).
type RelationshipEntry struct {
	I     int `yaml:"i" json:"i"`
	J     int `yaml:"j" json:"j"`
	Value int `yaml:"value" json:"value"`
}

func (s Settings) RelationshipMap() particle.Relationships {
	rel := particle.Relationships{}
	for _, e := range s.Relationships {
		rel.Set(e.I, e.J, e.Value)
	}
	return rel
}

func EntriesFromMap(rel particle.Relationships) []RelationshipEntry {
	out := make([]RelationshipEntry, 0, len(rel))
	for _, p := range rel.Pairs() {
		out = append(out, RelationshipEntry{I: p.I, J: p.J, Value: rel[p]})
	}
	return out
}

func (s Settings) TotalParticles() int {
	n := 0
	for _, c := range s.Classes {
		n += c.Count
	}
	return n
}
