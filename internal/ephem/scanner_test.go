package ephem

import (
	"errors"
	"testing"
)

const sampleResult = `*******************************************************************************
 Revised: July 31, 2013             Earth                              399
*******************************************************************************
 Date__(UT)__HR:MN     R.A._____(ICRF)_____DEC
**************************************************************
$$SOE
2024-Jan-01 00:00  10 20 30.0  +5 00 00
2024-Jan-02 00:00  10 24 12.1  +4 36 10
$$EOE
**************************************************************
`

func TestScanEphemeris_Sample(t *testing.T) {
	s, err := ScanEphemeris(sampleResult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.RA != "10 20 30.0" {
		t.Errorf("RA = %q, want %q", s.RA, "10 20 30.0")
	}
	if s.Dec != "+5 00 00" {
		t.Errorf("Dec = %q, want %q", s.Dec, "+5 00 00")
	}
	if s.Epoch != "2024-Jan-01 00:00" {
		t.Errorf("Epoch = %q", s.Epoch)
	}
}

func TestScanEphemeris_Lines(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantRA  string
		wantDec string
	}{
		{"date only", "2024-Jan-01 10 20 30.0 +5", "10 20 30.0", "+5"},
		{"solar flag", "2025-Dec-05 00:00 *   18 20 37.07 -23 49 14.9", "18 20 37.07", "-23 49 14.9"},
		{"presence flags", "2025-Dec-05 01:00 Cm  03 15 20.50 +17 02 33.1", "03 15 20.50", "+17 02 33.1"},
		{"seconds in time", "2024-Jan-01 00:00:30 10 20 30.0 -0 30 00", "10 20 30.0", "-0 30 00"},
		{"trailing columns", "2024-Jan-01 00:00 10 20 30.0 +5 00 00 1.234 -2.1", "10 20 30.0", "+5 00 00"},
		{"crlf", "2024-Jan-01 00:00 10 20 30.0 +5 00 00\r", "10 20 30.0", "+5 00 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ScanEphemeris("$$SOE\n" + tt.line + "\n$$EOE\n")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.RA != tt.wantRA || s.Dec != tt.wantDec {
				t.Errorf("got RA=%q Dec=%q, want RA=%q Dec=%q", s.RA, s.Dec, tt.wantRA, tt.wantDec)
			}
		})
	}
}

func TestScanEphemeris_NoData(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		noMarker bool
	}{
		{"empty text", "", true},
		{"no start marker", "header\n2024-Jan-01 00:00 10 20 30.0 +5 00 00\n$$EOE\n", true},
		{"empty region", "header\n$$SOE\n$$EOE\nfooter\n", false},
		{"blank lines only", "$$SOE\n\n   \n$$EOE\n", false},
		{"short row", "$$SOE\n2024-Jan-01 00:00 10 20\n$$EOE\n", false},
		{"non-numeric row", "$$SOE\n2024-Jan-01 00:00 n.a. n.a. n.a. n.a.\n$$EOE\n", false},
		{"unterminated region", "$$SOE\n\n", false},
		{"marker not at line start", "  $$SOE\n2024-Jan-01 00:00 10 20 30.0 +5 00 00\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanEphemeris(tt.text)
			if !errors.Is(err, ErrNoData) {
				t.Fatalf("error = %v, want ErrNoData", err)
			}
			if got := errors.Is(err, ErrNoStartMarker); got != tt.noMarker {
				t.Errorf("errors.Is(err, ErrNoStartMarker) = %v, want %v", got, tt.noMarker)
			}
		})
	}
}

func TestScanEphemeris_SkipsMalformedRow(t *testing.T) {
	text := "$$SOE\n2024-Jan-01 00:00 bad\n2024-Jan-02 00:00 11 00 00 +6\n$$EOE\n"
	s, err := ScanEphemeris(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.RA != "11 00 00" || s.Dec != "+6" {
		t.Errorf("got RA=%q Dec=%q", s.RA, s.Dec)
	}
}

func TestScanner_States(t *testing.T) {
	var s Scanner
	if s.State() != BeforeData {
		t.Fatalf("initial state = %v", s.State())
	}

	steps := []struct {
		line string
		want ScanState
		more bool
	}{
		{"header", BeforeData, true},
		{"$$SOE", InData, true},
		{"", InData, true},
		{"2024-Jan-01 00:00 10 20 30.0 +5 00 00", Done, false},
		{"2024-Jan-02 00:00 11 00 00 +6", Done, false},
	}

	for _, st := range steps {
		more := s.Feed(st.line)
		if s.State() != st.want || more != st.more {
			t.Fatalf("Feed(%q): state=%v more=%v, want %v %v", st.line, s.State(), more, st.want, st.more)
		}
	}

	got, err := s.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RA != "10 20 30.0" {
		t.Errorf("first row should win, got RA=%q", got.RA)
	}
}

func TestScanStateString(t *testing.T) {
	names := map[ScanState]string{
		BeforeData:    "BeforeData",
		InData:        "InData",
		Done:          "Done",
		ScanState(42): "unknown",
	}
	for st, want := range names {
		if got := st.String(); got != want {
			t.Errorf("ScanState(%d).String() = %q, want %q", st, got, want)
		}
	}
}
