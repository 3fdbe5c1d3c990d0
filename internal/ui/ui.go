// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrrery ViewMode = iota
	ViewBodies
	viewCount
)

// RefreshFunc runs one refresh cycle for date.
type RefreshFunc func(ctx context.Context, date time.Time) orrery.CycleReport

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// RefreshDoneMsg signals that a refresh cycle finished.
	RefreshDoneMsg struct {
		Report orrery.CycleReport
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	refresh RefreshFunc
	ctx     context.Context

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	orrery OrreryModel
	bodies BodiesModel

	snapshot state.Snapshot

	// One refresh runs at a time; a date change during a cycle queues
	// exactly one more.
	refreshing bool
	pending    bool
}

// New creates a new root UI model. refresh may be nil, which leaves the
// scene at whatever the state manager already holds.
func New(stateMgr *state.Manager, refresh RefreshFunc) Model {
	m := Model{
		state:    stateMgr,
		refresh:  refresh,
		ctx:      context.Background(),
		viewMode: ViewOrrery,
		orrery:   NewOrreryModel(),
		bodies:   NewBodiesModel(),
		snapshot: stateMgr.Snapshot(),
	}
	m.orrery = m.orrery.UpdateData(m.snapshot)
	m.bodies = m.bodies.UpdateData(m.snapshot)
	m.refreshing = refresh != nil
	return m
}

// WithContext sets the context passed to refresh cycles.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), animTickCmd()}
	if m.refresh != nil {
		cmds = append(cmds, m.refreshCmd(m.state.Date()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewOrrery
		case "2":
			m.viewMode = ViewBodies
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "[":
			m.state.ShiftDate(-1)
			cmds = append(cmds, m.requestRefresh())
		case "]":
			m.state.ShiftDate(1)
			cmds = append(cmds, m.requestRefresh())
		case "t":
			m.state.SetDate(state.Today())
			cmds = append(cmds, m.requestRefresh())
		case "R":
			cmds = append(cmds, m.requestRefresh())

		case " ":
			m.toggleSelected()

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}
		m.syncSnapshot()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.orrery = m.orrery.SetSize(msg.Width, contentHeight)
		m.bodies = m.bodies.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.syncSnapshot()
		if m.refreshDue(time.Time(msg)) {
			cmds = append(cmds, m.requestRefresh())
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case RefreshDoneMsg:
		m.refreshing = false
		r := msg.Report
		m.statusMsg = fmt.Sprintf("Refreshed %s: %d updated, %d failed",
			r.Date.Format("2006-01-02"), r.Updated(), r.Failed())
		m.syncSnapshot()
		if m.pending {
			m.pending = false
			cmds = append(cmds, m.requestRefresh())
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrrery:
		m.orrery, cmd = m.orrery.Update(msg)
	case ViewBodies:
		m.bodies, cmd = m.bodies.Update(msg)
	}
	return cmd
}

func (m *Model) syncSnapshot() {
	m.setSnapshot(m.state.Snapshot())
}

func (m *Model) setSnapshot(s state.Snapshot) {
	m.snapshot = s
	m.orrery = m.orrery.UpdateData(s)
	m.bodies = m.bodies.UpdateData(s)
}

// toggleSelected flips visibility of the body selected in the active view.
func (m *Model) toggleSelected() {
	var name string
	switch m.viewMode {
	case ViewOrrery:
		if b, ok := m.orrery.FocusedBody(); ok {
			name = b.Name
		}
	case ViewBodies:
		name = m.bodies.Selected()
	}
	if name == "" {
		return
	}
	if visible, ok := m.state.ToggleVisible(name); ok {
		if visible {
			m.statusMsg = name + " shown"
		} else {
			m.statusMsg = name + " hidden"
		}
	}
}

// requestRefresh starts a cycle for the current date, or queues one if a
// cycle is already running.
func (m *Model) requestRefresh() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	if m.refreshing {
		m.pending = true
		return nil
	}
	m.refreshing = true
	return m.refreshCmd(m.state.Date())
}

func (m Model) refreshCmd(date time.Time) tea.Cmd {
	refresh, ctx := m.refresh, m.ctx
	return func() tea.Msg {
		return RefreshDoneMsg{Report: refresh(ctx, date)}
	}
}

// refreshDue reports whether the refresh interval has elapsed since the
// last completed cycle.
func (m Model) refreshDue(now time.Time) bool {
	if m.refresh == nil || m.refreshing || m.snapshot.LastRefresh.IsZero() {
		return false
	}
	return now.Sub(m.snapshot.LastRefresh) >= m.state.RefreshInterval()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrrery:
		content = m.orrery.View()
	case ViewBodies:
		content = m.bodies.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       ██████╗ ██████╗ ██████╗ ███████╗██████╗ ██╗   ██╗`,
		`  ██║     ██╔════╝      ██╔═══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗╚██╗ ██╔╝`,
		`  ██║     ███████╗█████╗██║   ██║██████╔╝██████╔╝█████╗  ██████╔╝ ╚████╔╝`,
		`  ██║     ╚════██║╚════╝██║   ██║██╔══██╗██╔══██╗██╔══╝  ██╔══██╗  ╚██╔╝`,
		`  ███████╗███████║      ╚██████╔╝██║  ██║██║  ██║███████╗██║  ██║   ██║`,
		`  ╚══════╝╚══════╝       ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝   ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tagline := fmt.Sprintf("  Solar System Orrery · JPL Horizons · %s | v%s",
		m.snapshot.Date.Format("2006-01-02"), version.Version)
	b.WriteString(muted.Render(tagline))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Blue -> purple -> magenta -> pink, fading toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightness := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X",
		clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	i := int(v)
	if i > 255 {
		return 255
	}
	if i < 0 {
		return 0
	}
	return i
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orrery", "[2] Bodies"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.refreshing:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Fetching ephemerides...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastRefresh.IsZero():
		next := m.snapshot.LastRefresh.Add(m.state.RefreshInterval())
		countdown := time.Until(next).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(" refresh in "+countdown.String())
		if m.snapshot.RefreshDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.RefreshDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewBodies:
		help = dimStyle.Render("↑↓: select | space: show/hide | [/]: date | t: today | R: refresh")
	default:
		help = dimStyle.Render("j/k: focus | v: view | +/-: zoom | z: scale | space: show/hide | [/]: date | t: today")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := abs(i - pos + 4)

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// ActiveView returns the active view.
func (m Model) ActiveView() ViewMode {
	return m.viewMode
}

// Refreshing reports whether a refresh cycle is in flight.
func (m Model) Refreshing() bool {
	return m.refreshing
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
