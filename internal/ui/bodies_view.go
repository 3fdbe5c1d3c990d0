package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	positionedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// recentEventRows is how many events the bodies view lists.
const recentEventRows = 8

// BodiesModel lists every body with its latest sample and the event log.
type BodiesModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
}

// NewBodiesModel creates a new bodies table model.
func NewBodiesModel() BodiesModel {
	return BodiesModel{}
}

// SetSize updates the viewport size.
func (m BodiesModel) SetSize(width, height int) BodiesModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m BodiesModel) UpdateData(snapshot state.Snapshot) BodiesModel {
	m.snapshot = snapshot
	if n := len(snapshot.Bodies); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

// Selected returns the name of the body under the cursor.
func (m BodiesModel) Selected() string {
	if m.cursor < len(m.snapshot.Bodies) {
		return m.snapshot.Bodies[m.cursor].Name
	}
	return ""
}

// Update handles messages.
func (m BodiesModel) Update(msg tea.Msg) (BodiesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := len(m.snapshot.Bodies)
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}
	return m, nil
}

// View renders the bodies table and recent events.
func (m BodiesModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	return b.String()
}

func (m BodiesModel) renderTable() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bodies"))
	b.WriteString("  ")
	b.WriteString(pendingStyle.Render(m.snapshot.Date.Format("2006-01-02")))
	b.WriteString("\n")

	header := fmt.Sprintf("%-9s %-5s %-12s %-4s %-14s %-14s %8s %-8s",
		"Body", "Cmd", "State", "Vis", "RA", "Dec", "Dist", "Updated")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.snapshot.Bodies) == 0 {
		b.WriteString(pendingStyle.Render("  no bodies in catalog"))
		b.WriteString("\n")
		return b.String()
	}

	for i, body := range m.snapshot.Bodies {
		vis := "on"
		if !body.Visible {
			vis = "off"
		}
		updated := "-"
		if !body.UpdatedAt.IsZero() {
			updated = body.UpdatedAt.Format("15:04:05")
		}
		ra, dec := "-", "-"
		if body.Positioned {
			ra = formatRA(body.Sample.RA)
			dec = formatDec(body.Sample.Dec)
		}

		line := fmt.Sprintf("%-9s %-5s %-12s %-4s %-14s %-14s %8.1f %-8s",
			truncate(body.Name, 9), truncate(body.Command, 5), body.State().String(),
			vis, truncate(ra, 14), truncate(dec, 14), body.SceneDistance, updated)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(line))
		case body.Positioned:
			b.WriteString(positionedStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m BodiesModel) renderEvents() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Recent Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(pendingStyle.Render("  none yet"))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > recentEventRows {
		events = events[len(events)-recentEventRows:]
	}

	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := fmt.Sprintf("  %s %-13s %-9s %s",
			e.Timestamp.Format(time.TimeOnly), e.Type, e.Body, e.Detail)
		if e.Type == state.EventUpdateFailed {
			b.WriteString(errorStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
