package orrery

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
)

// ErrInvalidPoint is returned when a converted position has a NaN component.
var ErrInvalidPoint = errors.New("converted position has NaN component")

// Outcome classifies the result of refreshing one body.
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeNoData
	OutcomeInvalidFormat
	OutcomeInvalidPoint
	OutcomeFetchFailed
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeNoData:
		return "no_data"
	case OutcomeInvalidFormat:
		return "invalid_format"
	case OutcomeInvalidPoint:
		return "invalid_point"
	case OutcomeFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Reconcile extracts the first RA/Dec sample from ephemeris text, converts
// it at the body's scene distance and, if the point is valid, moves the body
// and realigns its orbit. On any failure the body is left unchanged.
func Reconcile(body *Body, result string) (Outcome, error) {
	sample, err := ephem.ScanEphemeris(result)
	if err != nil {
		return OutcomeNoData, err
	}

	pos, err := astro.CartesianFromStrings(sample.RA, sample.Dec, body.SceneDistance)
	if err != nil {
		return OutcomeInvalidFormat, err
	}

	if err := Apply(body, pos); err != nil {
		return OutcomeInvalidPoint, err
	}
	body.Sample = sample
	return OutcomeUpdated, nil
}

// Apply replaces the body's position with pos and turns its orbit to match.
// A point with any NaN component is rejected and the body is not modified.
func Apply(body *Body, pos astro.Vec3) error {
	if pos.HasNaN() {
		return fmt.Errorf("%w: %s (%v, %v, %v)", ErrInvalidPoint, body.Name, pos.X, pos.Y, pos.Z)
	}

	body.Position = pos
	body.Positioned = true
	body.UpdatedAt = time.Now()
	body.Orbit.Align(pos)
	return nil
}
