// Package orrery holds the scene bodies and reconciles them against
// ephemeris samples.
package orrery

import (
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
)

// BodyState is the per-body position lifecycle.
type BodyState int

const (
	// Unpositioned bodies still sit at their catalog placeholder.
	Unpositioned BodyState = iota
	// Positioned bodies have had at least one successful update.
	Positioned
)

// String returns the state name.
func (s BodyState) String() string {
	if s == Positioned {
		return "Positioned"
	}
	return "Unpositioned"
}

// Body is a catalog entry placed in the scene.
type Body struct {
	Name          string
	Command       string  // ephemeris service identifier, e.g. "399"
	Distance      float64 // catalog distance, before scaling
	SceneDistance float64 // Distance × scale
	Radius        float64 // visual radius

	Position   astro.Vec3
	Positioned bool
	Visible    bool

	Orbit Orbit

	// Last applied sample and when it was applied.
	Sample    ephem.Sample
	UpdatedAt time.Time
}

// State returns the body's position lifecycle state.
func (b *Body) State() BodyState {
	if b.Positioned {
		return Positioned
	}
	return Unpositioned
}

// NewBody places a catalog entry in the scene at (SceneDistance, 0, 0)
// with its orbit ring already created.
func NewBody(e CatalogEntry, scale float64) Body {
	d := e.Distance * scale
	return Body{
		Name:          e.Name,
		Command:       e.Command,
		Distance:      e.Distance,
		SceneDistance: d,
		Radius:        e.Radius,
		Position:      astro.Vec3{X: d},
		Visible:       true,
		Orbit:         NewOrbit(d),
	}
}

// NewBodies builds one body per catalog entry, in catalog order.
func NewBodies(entries []CatalogEntry, scale float64) []Body {
	bodies := make([]Body, len(entries))
	for i, e := range entries {
		bodies[i] = NewBody(e, scale)
	}
	return bodies
}
