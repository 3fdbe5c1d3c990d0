// Package astro provides celestial coordinate conversion and scene geometry.
package astro

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soniakeys/unit"
)

// ErrInvalidFormat is returned when an RA or Dec string cannot be parsed.
var ErrInvalidFormat = errors.New("invalid RA/Dec format")

// Minimum whitespace-separated components accepted for each input.
const (
	minRAParts  = 3 // hours minutes seconds
	minDecParts = 1 // degrees; arcmin and arcsec are optional
	maxDecParts = 3
)

// InvalidPoint returns the all-NaN point handed back alongside a conversion error.
func InvalidPoint() Vec3 {
	nan := math.NaN()
	return Vec3{X: nan, Y: nan, Z: nan}
}

// ParseRA parses a sexagesimal right ascension of the form "H M S".
// Components are unsigned and hours must be below 24. Components past the
// third are ignored.
func ParseRA(s string) (unit.RA, error) {
	parts := strings.Fields(s)
	if len(parts) < minRAParts {
		return 0, fmt.Errorf("%w: RA %q has %d components, want %d", ErrInvalidFormat, s, len(parts), minRAParts)
	}

	vals, err := parseComponents(parts[:minRAParts])
	if err != nil {
		return 0, fmt.Errorf("%w: RA %q: %v", ErrInvalidFormat, s, err)
	}
	if i := signedIndex(parts[:minRAParts]); i >= 0 {
		return 0, fmt.Errorf("%w: RA %q: component %d is signed", ErrInvalidFormat, s, i)
	}

	hours := vals[0] + vals[1]/60 + vals[2]/3600
	if hours >= 24 {
		return 0, fmt.Errorf("%w: RA %q out of range", ErrInvalidFormat, s)
	}
	return unit.RAFromHour(hours), nil
}

// ParseDec parses a sexagesimal declination "D [M [S]]".
// The sign of the degrees component applies to the whole value, so
// "-0 30 00" is half a degree south.
func ParseDec(s string) (unit.Angle, error) {
	parts := strings.Fields(s)
	if len(parts) < minDecParts {
		return 0, fmt.Errorf("%w: Dec %q is empty", ErrInvalidFormat, s)
	}
	if len(parts) > maxDecParts {
		parts = parts[:maxDecParts]
	}

	neg := strings.HasPrefix(parts[0], "-")

	vals, err := parseComponents(parts)
	if err != nil {
		return 0, fmt.Errorf("%w: Dec %q: %v", ErrInvalidFormat, s, err)
	}
	if i := signedIndex(parts[1:]); i >= 0 {
		return 0, fmt.Errorf("%w: Dec %q: component %d is signed", ErrInvalidFormat, s, i+1)
	}

	deg := math.Abs(vals[0])
	for i, scale := 1, 60.0; i < len(vals); i, scale = i+1, scale*60 {
		deg += vals[i] / scale
	}
	if neg {
		deg = -deg
	}

	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("%w: Dec %q out of range", ErrInvalidFormat, s)
	}

	return unit.AngleFromDeg(deg), nil
}

// CartesianFromStrings converts sexagesimal RA ("H M S") and Dec ("D [M [S]]")
// strings plus a radial distance into a Cartesian point.
//
// On a format error the returned point is InvalidPoint and err wraps
// ErrInvalidFormat. Callers must check err before using the point.
func CartesianFromStrings(ra, dec string, distance float64) (Vec3, error) {
	raAngle, err := ParseRA(ra)
	if err != nil {
		return InvalidPoint(), err
	}
	decAngle, err := ParseDec(dec)
	if err != nil {
		return InvalidPoint(), err
	}
	return Equatorial(raAngle, decAngle, distance), nil
}

// CartesianFromDegrees converts decimal-degree RA/Dec plus a radial distance
// into a Cartesian point.
func CartesianFromDegrees(raDeg, decDeg, distance float64) Vec3 {
	return Equatorial(unit.RAFromDeg(raDeg), unit.AngleFromDeg(decDeg), distance)
}

// Equatorial projects an RA/Dec direction onto a sphere of radius distance.
// RA is the azimuth in the XY plane measured from +X; Dec is the elevation
// toward +Z.
func Equatorial(ra unit.RA, dec unit.Angle, distance float64) Vec3 {
	sinRA, cosRA := ra.Sincos()
	sinDec, cosDec := dec.Sincos()
	return Vec3{
		X: distance * cosDec * cosRA,
		Y: distance * cosDec * sinRA,
		Z: distance * sinDec,
	}
}

func parseComponents(parts []string) ([]float64, error) {
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("component %d %q is not numeric", i, p)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("component %d %q is not finite", i, p)
		}
		vals[i] = v
	}
	return vals, nil
}

// signedIndex returns the index of the first component with a sign, or -1.
func signedIndex(parts []string) int {
	for i, p := range parts {
		if strings.HasPrefix(p, "-") || strings.HasPrefix(p, "+") {
			return i
		}
	}
	return -1
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
