// Package config loads ls-orrery settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/orrery"
)

// Refresh interval bounds.
const (
	MinRefresh     = time.Minute
	MaxRefresh     = 7 * 24 * time.Hour
	DefaultRefresh = 24 * time.Hour
)

// Duration is a time.Duration written as "24h" or "90m" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", value.Line, err)
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in Go syntax.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// EphemerisConfig selects and paces the ephemeris source.
type EphemerisConfig struct {
	Mode    string   `yaml:"mode"`
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
	Rate    float64  `yaml:"rate"` // requests per second, 0 disables pacing
	Burst   int      `yaml:"burst"`
}

// ServerConfig holds listen addresses. Empty disables the listener.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the top-level structure for an ls-orrery YAML file.
type Config struct {
	Ephemeris     EphemerisConfig       `yaml:"ephemeris"`
	Refresh       Duration              `yaml:"refresh"`
	DistanceScale float64               `yaml:"distance_scale"`
	Bodies        []orrery.CatalogEntry `yaml:"bodies"`
	Objects       []orrery.ObjectEntry  `yaml:"objects"`
	Server        ServerConfig          `yaml:"server"`
	Log           LogConfig             `yaml:"log"`
	Trace         string                `yaml:"trace"` // "", "none" or "stdout"
}

// Default returns the built-in configuration.
func Default() Config {
	bodies := make([]orrery.CatalogEntry, len(orrery.DefaultCatalog))
	copy(bodies, orrery.DefaultCatalog)

	return Config{
		Ephemeris: EphemerisConfig{
			Mode:    ephem.ModeProxy.String(),
			Timeout: Duration(ephem.DefaultTimeout),
			Rate:    4,
			Burst:   1,
		},
		Refresh:       Duration(DefaultRefresh),
		DistanceScale: orrery.DistanceScale,
		Bodies:        bodies,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values; a bodies list replaces the built-in catalog.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// RefreshInterval returns the configured refresh interval.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh)
}

// Mode returns the parsed ephemeris mode.
func (c Config) Mode() (ephem.Mode, error) {
	return ephem.ParseMode(c.Ephemeris.Mode)
}

// Validate reports every problem found in c.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.Mode(); err != nil {
		errs = append(errs, err)
	}

	if r := c.RefreshInterval(); r < MinRefresh || r > MaxRefresh {
		errs = append(errs, fmt.Errorf("refresh %v outside [%v, %v]", r, MinRefresh, MaxRefresh))
	}

	if c.DistanceScale <= 0 {
		errs = append(errs, fmt.Errorf("distance_scale must be positive, got %v", c.DistanceScale))
	}

	if c.Ephemeris.Rate < 0 {
		errs = append(errs, fmt.Errorf("ephemeris rate must not be negative, got %v", c.Ephemeris.Rate))
	}

	if len(c.Bodies) == 0 {
		errs = append(errs, errors.New("catalog has no bodies"))
	}
	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		switch {
		case strings.TrimSpace(b.Name) == "":
			errs = append(errs, fmt.Errorf("body %d has no name", i))
		case seen[b.Name]:
			errs = append(errs, fmt.Errorf("duplicate body %q", b.Name))
		}
		seen[b.Name] = true

		if strings.TrimSpace(b.Command) == "" {
			errs = append(errs, fmt.Errorf("body %q has no command", b.Name))
		}
		if b.Distance <= 0 {
			errs = append(errs, fmt.Errorf("body %q distance must be positive, got %v", b.Name, b.Distance))
		}
		if b.Radius <= 0 {
			errs = append(errs, fmt.Errorf("body %q radius must be positive, got %v", b.Name, b.Radius))
		}
	}

	for i, o := range c.Objects {
		if o.DecDeg < -90 || o.DecDeg > 90 {
			errs = append(errs, fmt.Errorf("object %d (%s) dec_deg %v out of range", i, o.Name, o.DecDeg))
		}
		if o.Distance < 0 {
			errs = append(errs, fmt.Errorf("object %d (%s) distance must not be negative", i, o.Name))
		}
	}

	return errors.Join(errs...)
}

// ClampRefresh bounds d to [MinRefresh, MaxRefresh]. It reports whether
// d was changed.
func ClampRefresh(d time.Duration) (time.Duration, bool) {
	switch {
	case d < MinRefresh:
		return MinRefresh, true
	case d > MaxRefresh:
		return MaxRefresh, true
	default:
		return d, false
	}
}
