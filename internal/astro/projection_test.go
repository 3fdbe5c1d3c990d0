package astro

import (
	"math"
	"testing"
)

func TestProject_CameraViews(t *testing.T) {
	cfg := ProjectionConfig{Scale: 1, Mode: ScaleLinear, MaxRadius: 1}

	tests := []struct {
		view  CameraView
		in    Vec3
		wantX float64
		wantY float64
	}{
		// Default looks down from +Z: screen is the XY plane.
		{CameraViews[0], Vec3{1, 0, 0}, 1, 0},
		{CameraViews[0], Vec3{0, 1, 0}, 0, 1},
		// Right looks from +X with Z up.
		{CameraViews[1], Vec3{0, 1, 0}, 1, 0},
		{CameraViews[1], Vec3{0, 0, 1}, 0, 1},
		// Top looks from +Y with Z up.
		{CameraViews[2], Vec3{1, 0, 0}, -1, 0},
		{CameraViews[2], Vec3{0, 0, 1}, 0, 1},
		// Left looks from -X.
		{CameraViews[3], Vec3{0, 1, 0}, -1, 0},
		// Bottom looks from -Y.
		{CameraViews[4], Vec3{1, 0, 0}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.view.Name, func(t *testing.T) {
			got := Project(tt.in, tt.view, cfg)
			if math.Abs(got.X-tt.wantX) > 1e-9 || math.Abs(got.Y-tt.wantY) > 1e-9 {
				t.Errorf("Project(%v) in %s = (%.3f, %.3f), want (%.3f, %.3f)",
					tt.in, tt.view.Name, got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestProject_DepthAndRange(t *testing.T) {
	cfg := ProjectionConfig{Scale: 1, Mode: ScaleLog, MaxRadius: 1}
	got := Project(Vec3{10, 0, 2}, CameraViews[0], cfg)

	if math.Abs(got.R-math.Sqrt(104)) > 1e-9 {
		t.Errorf("R = %v, want %v", got.R, math.Sqrt(104))
	}
	if math.Abs(got.Depth-2) > 1e-9 {
		t.Errorf("Depth = %v, want 2", got.Depth)
	}
}

func TestScaleModes(t *testing.T) {
	tests := []struct {
		name string
		mode ScaleMode
		r    float64
		want float64
	}{
		{"log 0", ScaleLog, 0, 0},
		{"log 9", ScaleLog, 9, 1},
		{"log 99", ScaleLog, 99, 2},
		{"linear half", ScaleLinear, 50, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ProjectionConfig{Scale: 1, Mode: tt.mode, MaxRadius: 100}
			got := Project(Vec3{tt.r, 0, 0}, CameraViews[0], cfg)
			if math.Abs(got.X-tt.want) > 1e-9 {
				t.Errorf("scaled X = %v, want %v", got.X, tt.want)
			}
			if math.Abs(got.Y) > 1e-10 {
				t.Errorf("Y should be ~0 for X-axis input, got %v", got.Y)
			}
		})
	}
}

func TestScaleModeString(t *testing.T) {
	if ScaleLog.String() != "log" || ScaleLinear.String() != "linear" || ScaleMode(9).String() != "unknown" {
		t.Error("unexpected ScaleMode names")
	}
}
