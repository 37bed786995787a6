package config

import (
	"sort"

	"github.com/san-kum/partisim/internal/particle"
)

var (
	red    = particle.RGBA{R: 0.9, G: 0.1, B: 0.1, A: 1}
	green  = particle.RGBA{R: 0.2, G: 0.6, B: 0, A: 1}
	blue   = particle.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}
	yellow = particle.RGBA{R: 0.95, G: 0.85, B: 0.2, A: 1}
)

var Presets = map[string]Settings{
	"duo": {
		Classes: []particle.Species{
			{Color: particle.RGBA{R: 1, A: 1}, Count: 200, Mass: 1, Restitution: 1},
			{Color: particle.RGBA{B: 1, A: 1}, Count: 200, Mass: 1, Restitution: 1},
		},
		Relationships: []RelationshipEntry{{1, 1, 2}, {1, 2, -2}, {2, 2, 2}},
	},
	"triad": {
		Classes: []particle.Species{
			{Color: green, Count: 375, Mass: 1, Restitution: 1},
			{Color: blue, Count: 375, Mass: 1, Restitution: 1},
			{Color: red, Count: 375, Mass: 1, Restitution: 1},
		},
		Relationships: []RelationshipEntry{
			{1, 1, 0}, {1, 2, 2}, {1, 3, -2},
			{2, 2, 1}, {2, 3, 2},
			{3, 3, 1},
		},
	},
	"chase": {
		Classes: []particle.Species{
			{Color: yellow, Count: 300, Mass: 1, Restitution: 0.8},
			{Color: red, Count: 60, Mass: 4, Restitution: 0.5},
		},
		Relationships: []RelationshipEntry{{1, 1, 3}, {1, 2, -5}, {2, 2, -1}},
	},
	"gas": {
		Classes: []particle.Species{
			{Color: blue, Count: 500, Mass: 1, Restitution: 1},
		},
		Relationships: []RelationshipEntry{{1, 1, 0}},
	},
}

func GetPreset(name string) (Settings, bool) {
	s, ok := Presets[name]
	return s, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
