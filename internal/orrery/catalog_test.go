package orrery

import (
	"math"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	if len(DefaultCatalog) != 9 {
		t.Fatalf("catalog has %d entries, want 9", len(DefaultCatalog))
	}

	seen := make(map[string]bool)
	for _, e := range DefaultCatalog {
		if seen[e.Name] {
			t.Errorf("duplicate entry %q", e.Name)
		}
		seen[e.Name] = true
		if e.Command == "" || e.Distance <= 0 || e.Radius <= 0 {
			t.Errorf("incomplete entry %+v", e)
		}
	}
}

func TestNewBodies(t *testing.T) {
	bodies := NewBodies(DefaultCatalog, DistanceScale)

	tests := []struct {
		name  string
		scene float64
	}{
		{"Mercury", 25},
		{"Earth", 50},
		{"Jupiter", 260},
		{"Io", 2105},
	}

	byName := make(map[string]Body)
	for _, b := range bodies {
		byName[b.Name] = b
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := byName[tt.name]
			if !ok {
				t.Fatalf("missing %s", tt.name)
			}
			if math.Abs(b.SceneDistance-tt.scene) > 1e-9 {
				t.Errorf("SceneDistance = %v, want %v", b.SceneDistance, tt.scene)
			}
			if b.Position.X != b.SceneDistance || b.Position.Y != 0 || b.Position.Z != 0 {
				t.Errorf("initial position = %+v", b.Position)
			}
			if b.Positioned || !b.Visible {
				t.Errorf("new body should be unpositioned and visible")
			}
			if b.Orbit.Radius != b.SceneDistance || b.Orbit.Segments != OrbitSegments {
				t.Errorf("orbit = %+v", b.Orbit)
			}
		})
	}
}

func TestScaleConstants(t *testing.T) {
	if DistanceScale != 5 {
		t.Errorf("DistanceScale = %v, want 5", DistanceScale)
	}
	if math.Abs(SunRadius-6.988) > 1e-9 {
		t.Errorf("SunRadius = %v, want 6.988", SunRadius)
	}
}

func TestNewObjects(t *testing.T) {
	objs := NewObjects([]ObjectEntry{
		{Name: "A", RADeg: 90, DecDeg: 0, Distance: 100, Radius: 2},
		{Name: "B", RADeg: 0, DecDeg: 90, Distance: 40},
	})

	if len(objs) != 2 {
		t.Fatalf("got %d objects", len(objs))
	}
	if math.Abs(objs[0].Position.Y-100) > 1e-9 {
		t.Errorf("A position = %+v, want (0,100,0)", objs[0].Position)
	}
	if math.Abs(objs[1].Position.Z-40) > 1e-9 {
		t.Errorf("B position = %+v, want (0,0,40)", objs[1].Position)
	}
	if objs[0].Radius != 2 || objs[1].Radius != DefaultObjectRadius {
		t.Errorf("radii = %v, %v", objs[0].Radius, objs[1].Radius)
	}
}

func TestBodyStateString(t *testing.T) {
	if Unpositioned.String() != "Unpositioned" || Positioned.String() != "Positioned" {
		t.Error("unexpected BodyState names")
	}
}
