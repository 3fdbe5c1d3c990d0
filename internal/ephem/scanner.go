package ephem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Data region markers in Horizons text output.
const (
	StartMarker = "$$SOE"
	EndMarker   = "$$EOE"
)

var (
	// ErrNoData is returned when the data region holds no usable row.
	ErrNoData = errors.New("no position data found")

	// ErrNoStartMarker is returned when the text has no $$SOE line.
	// It also matches ErrNoData.
	ErrNoStartMarker = fmt.Errorf("%w: missing %s marker", ErrNoData, StartMarker)
)

// minDataTokens is the fewest whitespace tokens a data row can have:
// epoch, three RA components and one Dec component.
const minDataTokens = 5

const (
	minRAParts   = 3
	maxDecTokens = 3
)

// ScanState is the position of the scanner relative to the data region.
type ScanState int

const (
	BeforeData ScanState = iota
	InData
	Done
)

// String returns the state name.
func (s ScanState) String() string {
	switch s {
	case BeforeData:
		return "BeforeData"
	case InData:
		return "InData"
	case Done:
		return "Done"
	default:
		return "unknown"
	}
}

// Scanner walks ephemeris text line by line and stops at the first usable row.
type Scanner struct {
	state  ScanState
	sample Sample
	found  bool
	sawSOE bool
}

// State returns the current scanner state.
func (s *Scanner) State() ScanState {
	return s.state
}

// Feed advances the scanner by one line. It returns false once the scanner is Done.
func (s *Scanner) Feed(line string) bool {
	switch s.state {
	case BeforeData:
		if strings.HasPrefix(line, StartMarker) {
			s.sawSOE = true
			s.state = InData
		}
	case InData:
		if strings.HasPrefix(line, EndMarker) {
			s.state = Done
			break
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		if sample, ok := parseDataLine(line); ok {
			s.sample = sample
			s.found = true
			s.state = Done
		}
	}
	return s.state != Done
}

// Result returns the extracted sample, or an error if none was found.
func (s *Scanner) Result() (Sample, error) {
	switch {
	case !s.sawSOE:
		return Sample{}, ErrNoStartMarker
	case !s.found:
		return Sample{}, ErrNoData
	default:
		return s.sample, nil
	}
}

// ScanEphemeris extracts the first usable RA/Dec sample between the
// $$SOE and $$EOE marker lines.
func ScanEphemeris(result string) (Sample, error) {
	var s Scanner
	for _, line := range strings.Split(result, "\n") {
		if !s.Feed(strings.TrimRight(line, "\r")) {
			break
		}
	}
	return s.Result()
}

// parseDataLine splits a row like
//
//	2024-Jan-01 00:00 *m  10 20 30.0  +5 00 00
//
// into epoch, RA and Dec. The optional time column and any
// solar/lunar presence flags between the epoch and RA are skipped.
func parseDataLine(line string) (Sample, bool) {
	fields := strings.Fields(line)
	if len(fields) < minDataTokens {
		return Sample{}, false
	}

	epoch := fields[0]
	i := 1
	if strings.Contains(fields[i], ":") {
		epoch += " " + fields[i]
		i++
	}
	for i < len(fields) && !isNumeric(fields[i]) {
		i++
	}

	rest := fields[i:]
	if len(rest) < minRAParts+1 {
		return Sample{}, false
	}
	for _, f := range rest[:minRAParts] {
		if !isNumeric(f) {
			return Sample{}, false
		}
	}

	dec := rest[minRAParts:]
	if !isNumeric(dec[0]) {
		return Sample{}, false
	}
	n := 1
	for n < len(dec) && n < maxDecTokens && isNumeric(dec[n]) && !isSigned(dec[n]) {
		n++
	}

	return Sample{
		Epoch: epoch,
		RA:    strings.Join(rest[:minRAParts], " "),
		Dec:   strings.Join(dec[:n], " "),
	}, true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isSigned(s string) bool {
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
}
