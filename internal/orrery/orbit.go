package orrery

import (
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
)

// OrbitSegments is the sample count of every orbit ring.
const OrbitSegments = 64

// Orbit is a closed ring drawn around the origin at a body's scene distance.
//
// Ring points are built as a circle in the XY plane, tilted about X by
// Tilt, turned about the vertical (Z) axis by Rotation and offset by Center.
type Orbit struct {
	Radius   float64
	Segments int
	Rotation float64 // radians about +Z
	Center   astro.Vec3
	Tilt     float64 // radians about +X, fixed at creation
}

// NewOrbit returns a flat ring of the given radius.
func NewOrbit(radius float64) Orbit {
	return Orbit{
		Radius:   radius,
		Segments: OrbitSegments,
	}
}

// Align turns the ring so its first vertex points at pos and re-centers it
// on the origin.
func (o *Orbit) Align(pos astro.Vec3) {
	o.Rotation = pos.Azimuth()
	o.Center = astro.Vec3{}
}

// Points returns the ring's vertices. The ring is closed: the last vertex
// connects back to the first.
func (o Orbit) Points() []astro.Vec3 {
	n := o.Segments
	if n <= 0 {
		n = OrbitSegments
	}

	pts := make([]astro.Vec3, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n)
		p := astro.Vec3{X: o.Radius * math.Cos(theta), Y: o.Radius * math.Sin(theta)}
		pts[i] = p.RotateX(o.Tilt).RotateZ(o.Rotation).Add(o.Center)
	}
	return pts
}
