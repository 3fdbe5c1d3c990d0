// Package ephem fetches ephemeris text for catalog bodies and extracts RA/Dec samples from it.
package ephem

import (
	"fmt"
	"strings"
)

// Sample is the first usable RA/Dec row of an ephemeris data region.
type Sample struct {
	Epoch string // Date and optional time columns, e.g. "2024-Jan-01 00:00"
	RA    string // "H M S"
	Dec   string // "D [M [S]]" with its sign
}

// Mode represents which ephemeris source to query.
type Mode int

const (
	ModeProxy    Mode = iota // planet-data proxy (default)
	ModeHorizons             // JPL Horizons API directly
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeProxy:
		return "proxy"
	case ModeHorizons:
		return "horizons"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. An empty string selects ModeProxy.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "proxy":
		return ModeProxy, nil
	case "horizons":
		return ModeHorizons, nil
	default:
		return ModeProxy, fmt.Errorf("unknown ephemeris mode %q (want proxy or horizons)", s)
	}
}

// DefaultBaseURL returns the base URL used by a mode when none is configured.
func (m Mode) DefaultBaseURL() string {
	if m == ModeHorizons {
		return HorizonsAPIURL
	}
	return DefaultProxyURL
}
