package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orrery"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.RefreshInterval() != 24*time.Hour {
		t.Errorf("Refresh = %v, want 24h", cfg.RefreshInterval())
	}
	if len(cfg.Bodies) != len(orrery.DefaultCatalog) {
		t.Errorf("Bodies = %d, want %d", len(cfg.Bodies), len(orrery.DefaultCatalog))
	}
	if mode, _ := cfg.Mode(); mode != ephem.ModeProxy {
		t.Errorf("Mode = %v, want proxy", mode)
	}

	// Default must not alias the package catalog.
	cfg.Bodies[0].Name = "Changed"
	if orrery.DefaultCatalog[0].Name != "Mercury" {
		t.Error("Default() shares the DefaultCatalog backing array")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ephemeris:
  mode: horizons
  rate: 2
refresh: 6h
bodies:
  - name: Earth
    command: "399"
    radius: 1
    distance: 10
  - name: Ceres
    command: "1;"
    radius: 0.07
    distance: 27
objects:
  - name: M31
    ra_deg: 10.68
    dec_deg: 41.27
    distance: 900
server:
  addr: ":3000"
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if mode, _ := cfg.Mode(); mode != ephem.ModeHorizons {
		t.Errorf("Mode = %v, want horizons", mode)
	}
	if cfg.RefreshInterval() != 6*time.Hour {
		t.Errorf("Refresh = %v, want 6h", cfg.RefreshInterval())
	}
	if cfg.Ephemeris.Rate != 2 || cfg.Ephemeris.Burst != 1 {
		t.Errorf("rate/burst = %v/%d, want 2/1", cfg.Ephemeris.Rate, cfg.Ephemeris.Burst)
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1].Name != "Ceres" || cfg.Bodies[1].Command != "1;" {
		t.Errorf("Bodies = %+v", cfg.Bodies)
	}
	if len(cfg.Objects) != 1 || cfg.Objects[0].RADeg != 10.68 {
		t.Errorf("Objects = %+v", cfg.Objects)
	}
	if cfg.Server.Addr != ":3000" || cfg.Log.Level != "debug" {
		t.Errorf("server/log = %+v %+v", cfg.Server, cfg.Log)
	}
	// Untouched keys keep defaults.
	if cfg.DistanceScale != orrery.DistanceScale {
		t.Errorf("DistanceScale = %v, want default", cfg.DistanceScale)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, "refresh: soon\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error for bad duration, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Ephemeris.Mode = "dsn" }, "unknown ephemeris mode"},
		{"refresh too short", func(c *Config) { c.Refresh = Duration(time.Second) }, "outside"},
		{"refresh too long", func(c *Config) { c.Refresh = Duration(30 * 24 * time.Hour) }, "outside"},
		{"empty catalog", func(c *Config) { c.Bodies = nil }, "no bodies"},
		{"duplicate names", func(c *Config) { c.Bodies = append(c.Bodies, c.Bodies[0]) }, "duplicate body"},
		{"zero distance", func(c *Config) { c.Bodies[0].Distance = 0 }, "distance must be positive"},
		{"no command", func(c *Config) { c.Bodies[1].Command = "" }, "no command"},
		{"bad scale", func(c *Config) { c.DistanceScale = -1 }, "distance_scale"},
		{"bad object dec", func(c *Config) {
			c.Objects = []orrery.ObjectEntry{{Name: "X", DecDeg: 120}}
		}, "dec_deg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestClampRefresh(t *testing.T) {
	tests := []struct {
		in      time.Duration
		want    time.Duration
		clamped bool
	}{
		{10 * time.Second, MinRefresh, true},
		{time.Hour, time.Hour, false},
		{24 * time.Hour, 24 * time.Hour, false},
		{30 * 24 * time.Hour, MaxRefresh, true},
	}

	for _, tt := range tests {
		got, clamped := ClampRefresh(tt.in)
		if got != tt.want || clamped != tt.clamped {
			t.Errorf("ClampRefresh(%v) = %v, %v; want %v, %v", tt.in, got, clamped, tt.want, tt.clamped)
		}
	}
}
