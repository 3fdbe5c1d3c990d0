package orrery

import (
	"github.com/litescript/ls-orrery/internal/astro"
)

const (
	// SceneFactor converts catalog figures to scene units.
	SceneFactor = 0.1

	// DistanceScale multiplies catalog distances into scene distances.
	DistanceScale = 50 * SceneFactor

	// SunRadius is the Sun's visual radius in scene units.
	SunRadius = 69.88 * SceneFactor
)

// CatalogEntry describes one body before it is placed in the scene.
type CatalogEntry struct {
	Name     string  `yaml:"name" json:"name"`
	Command  string  `yaml:"command" json:"command"`
	Radius   float64 `yaml:"radius" json:"radius"`
	Distance float64 `yaml:"distance" json:"distance"`
}

// DefaultCatalog is the built-in body list.
var DefaultCatalog = []CatalogEntry{
	{Name: "Mercury", Command: "199", Radius: 0.383, Distance: 5},
	{Name: "Venus", Command: "299", Radius: 0.949, Distance: 7},
	{Name: "Earth", Command: "399", Radius: 1, Distance: 10},
	{Name: "Mars", Command: "499", Radius: 0.532, Distance: 15},
	{Name: "Jupiter", Command: "599", Radius: 11.21, Distance: 52},
	{Name: "Saturn", Command: "699", Radius: 9.45, Distance: 95},
	{Name: "Uranus", Command: "799", Radius: 4, Distance: 192},
	{Name: "Neptune", Command: "899", Radius: 3.88, Distance: 301},
	{Name: "Io", Command: "501", Radius: 50.286, Distance: 421},
}

// ObjectEntry is a fixed background object given in decimal degrees.
type ObjectEntry struct {
	Name     string  `yaml:"name" json:"name"`
	RADeg    float64 `yaml:"ra_deg" json:"ra_deg"`
	DecDeg   float64 `yaml:"dec_deg" json:"dec_deg"`
	Distance float64 `yaml:"distance" json:"distance"`
	Radius   float64 `yaml:"radius" json:"radius"`
}

// Object is a static marker placed once from its catalog coordinates.
// Objects are never refreshed.
type Object struct {
	Name     string     `json:"name"`
	Position astro.Vec3 `json:"position"`
	Radius   float64    `json:"radius"`
}

// DefaultObjectRadius is used when an ObjectEntry leaves Radius unset.
const DefaultObjectRadius = 10.0

// NewObjects converts object entries to scene markers. Distances are
// used as given.
func NewObjects(entries []ObjectEntry) []Object {
	objs := make([]Object, len(entries))
	for i, e := range entries {
		r := e.Radius
		if r <= 0 {
			r = DefaultObjectRadius
		}
		objs[i] = Object{
			Name:     e.Name,
			Position: astro.CartesianFromDegrees(e.RADeg, e.DecDeg, e.Distance),
			Radius:   r,
		}
	}
	return objs
}
