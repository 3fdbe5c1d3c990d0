package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit z", Vec3{0, 0, 1}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{5, 0, 0}, Vec3{1, 0, 0}},
		{"diagonal", Vec3{1, 1, 0}, Vec3{1 / math.Sqrt(2), 1 / math.Sqrt(2), 0}},
		{"zero", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalized()
			if !approxVec(got, tt.want, 1e-10) {
				t.Errorf("Normalized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3HasNaN(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		v    Vec3
		want bool
	}{
		{Vec3{1, 2, 3}, false},
		{Vec3{nan, 0, 0}, true},
		{Vec3{0, nan, 0}, true},
		{Vec3{0, 0, nan}, true},
		{Vec3{math.Inf(1), 0, 0}, false},
	}

	for _, tt := range tests {
		if got := tt.v.HasNaN(); got != tt.want {
			t.Errorf("HasNaN(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVec3Rotate(t *testing.T) {
	v := Vec3{1, 0, 0}

	if got := v.RotateZ(math.Pi / 2); !approxVec(got, Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("RotateZ(π/2) = %v, want (0,1,0)", got)
	}
	if got := (Vec3{0, 1, 0}).RotateX(math.Pi / 2); !approxVec(got, Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("RotateX(π/2) = %v, want (0,0,1)", got)
	}

	// Rotations preserve length
	w := Vec3{3, -4, 12}
	if got := w.RotateZ(1.234).RotateX(-0.5).Norm(); math.Abs(got-13) > 1e-9 {
		t.Errorf("rotated norm = %v, want 13", got)
	}
}

func TestAzimuth(t *testing.T) {
	tests := []struct {
		v    Vec3
		want float64
	}{
		{Vec3{1, 0, 0}, 0},
		{Vec3{0, 1, 0}, math.Pi / 2},
		{Vec3{-1, 0, 0}, math.Pi},
		{Vec3{0, -1, 5}, -math.Pi / 2},
	}

	for _, tt := range tests {
		if got := tt.v.Azimuth(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Azimuth(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestLatitude(t *testing.T) {
	tests := []struct {
		v       Vec3
		wantDeg float64
	}{
		{Vec3{1, 0, 0}, 0},
		{Vec3{0, 0, 1}, 90},
		{Vec3{0, 0, -1}, -90},
		{Vec3{1, 0, 1}, 45},
		{Vec3{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		got := Latitude(tt.v)
		if math.Abs(got-tt.wantDeg) > 0.01 {
			t.Errorf("Latitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantDeg)
		}
	}
}

func TestLongitude(t *testing.T) {
	tests := []struct {
		v       Vec3
		wantDeg float64
	}{
		{Vec3{1, 0, 0}, 0},
		{Vec3{0, 1, 0}, 90},
		{Vec3{-1, 0, 0}, 180},
		{Vec3{0, -1, 0}, 270},
		{Vec3{1, 1, 0}, 45},
	}

	for _, tt := range tests {
		got := Longitude(tt.v)
		if math.Abs(got-tt.wantDeg) > 0.01 {
			t.Errorf("Longitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantDeg)
		}
	}
}
