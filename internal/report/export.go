// Package report renders scene snapshots for headless output and the HTTP
// backend.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/state"
)

// DateLayout is the day format used in all reports.
const DateLayout = "2006-01-02"

// Vec is a JSON-friendly position.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vec(v astro.Vec3) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// BodyExport is a JSON-friendly body.
type BodyExport struct {
	Name          string    `json:"name"`
	Command       string    `json:"command"`
	Distance      float64   `json:"distance"`
	SceneDistance float64   `json:"scene_distance"`
	Radius        float64   `json:"radius"`
	Position      Vec       `json:"position"`
	State         string    `json:"state"`
	Visible       bool      `json:"visible"`
	OrbitRotation float64   `json:"orbit_rotation"`
	RA            string    `json:"ra,omitempty"`
	Dec           string    `json:"dec,omitempty"`
	Epoch         string    `json:"epoch,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ObjectExport is a JSON-friendly background object.
type ObjectExport struct {
	Name     string  `json:"name"`
	Radius   float64 `json:"radius"`
	Position Vec     `json:"position"`
}

// SnapshotExport is the JSON-serializable representation of the scene.
type SnapshotExport struct {
	Date            string         `json:"date"`
	LastRefresh     time.Time      `json:"last_refresh"`
	RefreshDuration float64        `json:"refresh_duration_seconds"`
	Cycles          int            `json:"cycles"`
	LastError       string         `json:"last_error,omitempty"`
	Bodies          []BodyExport   `json:"bodies"`
	Objects         []ObjectExport `json:"objects,omitempty"`
	Events          []state.Event  `json:"events,omitempty"`
}

// ExportBody converts a body to its exportable form.
func ExportBody(b orrery.Body) BodyExport {
	return BodyExport{
		Name:          b.Name,
		Command:       b.Command,
		Distance:      b.Distance,
		SceneDistance: b.SceneDistance,
		Radius:        b.Radius,
		Position:      vec(b.Position),
		State:         b.State().String(),
		Visible:       b.Visible,
		OrbitRotation: b.Orbit.Rotation,
		RA:            b.Sample.RA,
		Dec:           b.Sample.Dec,
		Epoch:         b.Sample.Epoch,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ExportObjects converts background objects to their exportable form.
func ExportObjects(objs []orrery.Object) []ObjectExport {
	out := make([]ObjectExport, len(objs))
	for i, o := range objs {
		out[i] = ObjectExport{Name: o.Name, Radius: o.Radius, Position: vec(o.Position)}
	}
	return out
}

// ExportSnapshot converts a state snapshot to an exportable format.
func ExportSnapshot(snap state.Snapshot) *SnapshotExport {
	export := &SnapshotExport{
		Date:            snap.Date.Format(DateLayout),
		LastRefresh:     snap.LastRefresh,
		RefreshDuration: snap.RefreshDuration.Seconds(),
		Cycles:          snap.Cycles,
		Bodies:          make([]BodyExport, len(snap.Bodies)),
		Objects:         ExportObjects(snap.Objects),
		Events:          snap.Events,
	}
	if snap.LastError != nil {
		export.LastError = snap.LastError.Error()
	}
	for i, b := range snap.Bodies {
		export.Bodies[i] = ExportBody(b)
	}
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Name       string
	Command    string
	State      orrery.BodyState
	Visible    bool
	RA         string
	Dec        string
	Distance   float64
	Longitude  float64 // degrees, from the scene position
	Latitude   float64
	UpdatedAgo time.Duration
}

// GenerateSummaryRows creates summary rows from bodies.
func GenerateSummaryRows(bodies []orrery.Body, now time.Time) []SummaryRow {
	rows := make([]SummaryRow, 0, len(bodies))
	for _, b := range bodies {
		row := SummaryRow{
			Name:     b.Name,
			Command:  b.Command,
			State:    b.State(),
			Visible:  b.Visible,
			RA:       b.Sample.RA,
			Dec:      b.Sample.Dec,
			Distance: b.SceneDistance,
		}
		if b.Positioned {
			row.Longitude = astro.Longitude(b.Position)
			row.Latitude = astro.Latitude(b.Position)
			row.UpdatedAgo = now.Sub(b.UpdatedAt)
		}
		rows = append(rows, row)
	}
	return rows
}

// Styles used when writing to a color terminal.
var (
	positionedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func paint(s string, style lipgloss.Style, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}

// WriteSummaryTable writes a text table of the scene to w. color enables
// ANSI styling.
func WriteSummaryTable(w io.Writer, snap state.Snapshot, color bool) {
	rows := GenerateSummaryRows(snap.Bodies, time.Now())

	fmt.Fprintf(w, "Orrery @ %s", snap.Date.Format(DateLayout))
	if !snap.LastRefresh.IsZero() {
		fmt.Fprintf(w, " (refreshed %s in %v)", snap.LastRefresh.Format(time.RFC3339),
			snap.RefreshDuration.Round(time.Millisecond))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 92))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No bodies in catalog")
		return
	}

	fmt.Fprintf(w, "%-9s %-5s %-12s %-3s %-12s %-11s %8s %7s %6s\n",
		"Body", "Cmd", "State", "Vis", "RA", "Dec", "Dist", "Lon", "Lat")
	fmt.Fprintln(w, strings.Repeat("─", 92))

	positioned := 0
	for _, r := range rows {
		vis := "on"
		if !r.Visible {
			vis = "off"
		}
		ra, dec, lon, lat := "-", "-", "-", "-"
		if r.State == orrery.Positioned {
			positioned++
			ra, dec = r.RA, r.Dec
			lon = fmt.Sprintf("%6.1f°", r.Longitude)
			lat = fmt.Sprintf("%5.1f°", r.Latitude)
		}

		line := fmt.Sprintf("%-9s %-5s %-12s %-3s %-12s %-11s %8.1f %7s %6s",
			truncateStr(r.Name, 9),
			truncateStr(r.Command, 5),
			r.State,
			vis,
			truncateStr(ra, 12),
			truncateStr(dec, 11),
			r.Distance,
			lon,
			lat,
		)
		if r.State == orrery.Positioned {
			fmt.Fprintln(w, paint(line, positionedStyle, color))
		} else {
			fmt.Fprintln(w, paint(line, pendingStyle, color))
		}
	}

	fmt.Fprintf(w, "\nTotal: %d/%d bodies positioned\n", positioned, len(rows))
	if snap.LastError != nil {
		fmt.Fprintln(w, paint("Last error: "+snap.LastError.Error(), failStyle, color))
	}
}

// WriteEvents writes the last n events, newest first.
func WriteEvents(w io.Writer, events []state.Event, n int) {
	fmt.Fprintln(w, "Event Log")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		fmt.Fprintf(w, "%s %s %-9s %s\n",
			e.Timestamp.Format("15:04:05"), formatEventType(e.Type), e.Body, e.Detail)
	}
}

func formatEventType(t state.EventType) string {
	switch t {
	case state.EventPositioned:
		return "●POS "
	case state.EventUpdated:
		return "↻UPD "
	case state.EventUpdateFailed:
		return "✗FAIL"
	case state.EventDateChanged:
		return "→DATE"
	case state.EventCycle:
		return "◌CYC "
	default:
		return "?    "
	}
}

// Change is a body whose position differs between two snapshots.
type Change struct {
	Name  string
	From  astro.Vec3
	To    astro.Vec3
	First bool // first successful position
}

// Moved returns the distance between the two positions.
func (c Change) Moved() float64 {
	return c.To.Sub(c.From).Norm()
}

// moveEpsilon is the smallest position change reported by ComputeDiff.
const moveEpsilon = 1e-9

// ComputeDiff lists bodies that moved between prev and cur, matched by name.
func ComputeDiff(prev, cur []orrery.Body) []Change {
	before := make(map[string]orrery.Body, len(prev))
	for _, b := range prev {
		before[b.Name] = b
	}

	var changes []Change
	for _, b := range cur {
		p, ok := before[b.Name]
		if !ok {
			continue
		}
		if b.Position.Sub(p.Position).Norm() <= moveEpsilon && p.Positioned == b.Positioned {
			continue
		}
		changes = append(changes, Change{
			Name:  b.Name,
			From:  p.Position,
			To:    b.Position,
			First: !p.Positioned && b.Positioned,
		})
	}
	return changes
}

// WriteDiff writes the changes found between two refreshes.
func WriteDiff(w io.Writer, changes []Change, date time.Time) {
	if len(changes) == 0 {
		fmt.Fprintf(w, "%s no changes\n", date.Format(DateLayout))
		return
	}
	for _, c := range changes {
		if c.First {
			fmt.Fprintf(w, "%s %-9s positioned at (%.2f, %.2f, %.2f)\n",
				date.Format(DateLayout), c.Name, c.To.X, c.To.Y, c.To.Z)
			continue
		}
		fmt.Fprintf(w, "%s %-9s moved %.3f to (%.2f, %.2f, %.2f)\n",
			date.Format(DateLayout), c.Name, c.Moved(), c.To.X, c.To.Y, c.To.Z)
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
