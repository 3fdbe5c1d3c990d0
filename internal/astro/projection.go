package astro

import (
	"math"
)

// ProjectedPoint is a 2D screen-plane position with metadata.
type ProjectedPoint struct {
	X     float64 // Screen X after radial scaling
	Y     float64 // Screen Y after radial scaling
	R     float64 // True 3D distance from the origin
	Depth float64 // Distance along the view direction (positive = toward camera)
}

// ScaleMode defines how radial distances are mapped to screen space.
type ScaleMode int

const (
	// ScaleLog uses logarithmic scaling: r_display = log10(r + 1)
	ScaleLog ScaleMode = iota

	// ScaleLinear maps scene units directly, normalized by ProjectionConfig.MaxRadius
	ScaleLinear
)

// String returns the scale mode name.
func (m ScaleMode) String() string {
	switch m {
	case ScaleLog:
		return "log"
	case ScaleLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// ProjectionConfig configures screen projection.
type ProjectionConfig struct {
	Scale     float64   // Zoom factor
	Mode      ScaleMode // Radial scaling mode
	MaxRadius float64   // Scene radius mapped to 1.0 in linear mode
}

// CameraView is a fixed camera placement looking at the origin.
type CameraView struct {
	Name     string
	Position Vec3
}

// CameraViews are the selectable views, cycled in order.
var CameraViews = []CameraView{
	{Name: "Default", Position: Vec3{X: 0, Y: 0, Z: 100}},
	{Name: "Right", Position: Vec3{X: 100, Y: 0, Z: 0}},
	{Name: "Top", Position: Vec3{X: 0, Y: 100, Z: 0}},
	{Name: "Left", Position: Vec3{X: -100, Y: 0, Z: 0}},
	{Name: "Bottom", Position: Vec3{X: 0, Y: -100, Z: 0}},
}

// basis returns the camera's screen right and up vectors and its backward
// (toward camera) vector.
func (c CameraView) basis() (right, up, back Vec3) {
	back = c.Position.Normalized()
	if back == (Vec3{}) {
		back = Vec3{Z: 1}
	}
	forward := back.Scale(-1)

	worldUp := Vec3{Z: 1}
	if math.Abs(back.Z) > 0.999 {
		worldUp = Vec3{Y: 1}
	}

	right = cross(forward, worldUp).Normalized()
	up = cross(right, forward)
	return right, up, back
}

// Project maps a scene point onto the camera's screen plane and applies
// radial scaling.
func Project(v Vec3, view CameraView, cfg ProjectionConfig) ProjectedPoint {
	right, up, back := view.basis()

	sx := dot(v, right)
	sy := dot(v, up)

	rScreen := math.Hypot(sx, sy)
	rDisplay := scaleRadius(rScreen, cfg)
	angle := math.Atan2(sy, sx)

	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}

	return ProjectedPoint{
		X:     rDisplay * math.Cos(angle) * scale,
		Y:     rDisplay * math.Sin(angle) * scale,
		R:     v.Norm(),
		Depth: dot(v, back),
	}
}

// DisplayRadius returns the scaled screen radius of a scene distance r,
// before zoom.
func (c ProjectionConfig) DisplayRadius(r float64) float64 {
	return scaleRadius(r, c)
}

// scaleRadius applies the configured scaling mode to a radial distance.
func scaleRadius(r float64, cfg ProjectionConfig) float64 {
	switch cfg.Mode {
	case ScaleLinear:
		if cfg.MaxRadius <= 0 {
			return r
		}
		return r / cfg.MaxRadius
	default:
		return math.Log10(r + 1)
	}
}

func dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
