package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	sexa "github.com/soniakeys/sexagesimal"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/state"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every body
)

// String returns the label mode name.
func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

// Screen rows are roughly twice as tall as columns.
const aspect = 0.5

// Bodies at or above this visual radius draw as giants.
const giantRadius = 3.0

// OrreryModel renders the scene from one of the fixed camera views.
type OrreryModel struct {
	width    int
	height   int
	snapshot state.Snapshot

	// View state
	focusIdx    int // Index in bodies list (-1 = Sun)
	zoomLevel   int // Index into zoomLevels
	panX        float64
	panY        float64
	scaleMode   astro.ScaleMode
	labelMode   LabelMode
	viewIdx     int // Index into astro.CameraViews
	showRings   bool
	showObjects bool
	userPanned  bool // Disables auto-center on zoom
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3

// NewOrreryModel creates a new orrery view model.
func NewOrreryModel() OrreryModel {
	return OrreryModel{
		focusIdx:    -1,
		zoomLevel:   defaultZoom,
		scaleMode:   astro.ScaleLog,
		labelMode:   LabelFocused,
		showRings:   true,
		showObjects: true,
	}
}

func (m OrreryModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// CameraView returns the active camera.
func (m OrreryModel) CameraView() astro.CameraView {
	return astro.CameraViews[m.viewIdx%len(astro.CameraViews)]
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m OrreryModel) UpdateData(snapshot state.Snapshot) OrreryModel {
	m.snapshot = snapshot
	if m.focusIdx >= len(snapshot.Bodies) {
		m.focusIdx = -1
	}
	return m
}

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j":
			m.focusPrev()
		case "k":
			m.focusNext()

		case "up":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.panX, m.panY = 0, 0
			m.userPanned = false
		case "f":
			m.centerOnFocused()
			m.userPanned = false

		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
				m.recenter()
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
				m.recenter()
			}
		case "0":
			m.zoomLevel = defaultZoom
			m.recenter()

		case "z":
			if m.scaleMode == astro.ScaleLog {
				m.scaleMode = astro.ScaleLinear
			} else {
				m.scaleMode = astro.ScaleLog
			}
			m.recenter()

		case "v":
			m.viewIdx = (m.viewIdx + 1) % len(astro.CameraViews)
			m.recenter()

		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "g":
			m.showRings = !m.showRings
		case "o":
			m.showObjects = !m.showObjects

		case "r":
			m.panX, m.panY = 0, 0
			m.zoomLevel = defaultZoom
			m.viewIdx = 0
			m.userPanned = false
		}
	}
	return m, nil
}

func (m *OrreryModel) focusNext() {
	if len(m.snapshot.Bodies) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.snapshot.Bodies) {
		m.focusIdx = -1
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *OrreryModel) focusPrev() {
	if len(m.snapshot.Bodies) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.snapshot.Bodies) - 1
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *OrreryModel) recenter() {
	if !m.userPanned {
		m.centerOnFocused()
	}
}

// centerOnFocused pans the view so the focused body sits at screen center.
func (m *OrreryModel) centerOnFocused() {
	b, ok := m.FocusedBody()
	if !ok {
		m.panX, m.panY = 0, 0
		return
	}
	p := astro.Project(b.Position, m.CameraView(), m.projection())
	m.panX = -p.X
	m.panY = -p.Y
}

// FocusedBody returns the focused body. It reports false when the Sun is
// focused.
func (m OrreryModel) FocusedBody() (orrery.Body, bool) {
	if m.focusIdx >= 0 && m.focusIdx < len(m.snapshot.Bodies) {
		return m.snapshot.Bodies[m.focusIdx], true
	}
	return orrery.Body{}, false
}

// maxRadius is the largest scene distance in the catalog.
func (m OrreryModel) maxRadius() float64 {
	r := 1.0
	for _, b := range m.snapshot.Bodies {
		if b.SceneDistance > r {
			r = b.SceneDistance
		}
	}
	return r
}

func (m OrreryModel) projection() astro.ProjectionConfig {
	return astro.ProjectionConfig{
		Scale:     m.scale(),
		Mode:      m.scaleMode,
		MaxRadius: m.maxRadius(),
	}
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

// screen maps projected points into grid cells.
type screen struct {
	originX, originY int
	displayScale     float64
	view             astro.CameraView
	cfg              astro.ProjectionConfig
}

func (s screen) place(v astro.Vec3) (int, int) {
	p := astro.Project(v, s.view, s.cfg)
	x := s.originX + int(math.Round(p.X*s.displayScale))
	y := s.originY - int(math.Round(p.Y*s.displayScale*aspect))
	return x, y
}

func newGrid(w, h int) [][]rune {
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}
	return grid
}

func inBounds(grid [][]rune, x, y int) bool {
	return y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y])
}

// buildCanvas renders the scene to a string canvas.
func (m OrreryModel) buildCanvas() string {
	// Reserve space for HUD
	canvasH := m.height - 5
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := m.width
	grid := newGrid(canvasW, canvasH)

	centerX := canvasW / 2
	centerY := canvasH / 2

	cfg := m.projection()
	extent := cfg.DisplayRadius(m.maxRadius())
	if extent <= 0 {
		extent = 1
	}
	maxDisplayR := float64(min(centerX, int(float64(centerY)/aspect))) * 0.9
	displayScale := maxDisplayR / extent

	scr := screen{
		originX:      centerX + int(math.Round(m.panX*displayScale)),
		originY:      centerY - int(math.Round(m.panY*displayScale*aspect)),
		displayScale: displayScale,
		view:         m.CameraView(),
		cfg:          cfg,
	}

	if m.showObjects {
		for _, o := range m.snapshot.Objects {
			x, y := scr.place(o.Position)
			if inBounds(grid, x, y) && grid[y][x] == ' ' {
				grid[y][x] = '✦'
			}
		}
	}

	if m.showRings {
		for _, b := range m.snapshot.Bodies {
			if b.Visible {
				m.drawRing(grid, scr, b.Orbit)
			}
		}
	}

	var positions []bodyPos
	for i, b := range m.snapshot.Bodies {
		if !b.Visible {
			continue
		}
		x, y := scr.place(b.Position)
		if !inBounds(grid, x, y) {
			continue
		}
		grid[y][x] = bodyGlyph(b, i == m.focusIdx)
		positions = append(positions, bodyPos{x: x, y: y, name: b.Name, isFocused: i == m.focusIdx})
	}

	// Sun last so it is always visible
	if inBounds(grid, scr.originX, scr.originY) {
		grid[scr.originY][scr.originX] = '☉'
		positions = append(positions, bodyPos{
			x:         scr.originX,
			y:         scr.originY,
			name:      "Sun",
			isFocused: m.focusIdx == -1,
		})
	}

	m.renderLabels(grid, positions)
	return renderGrid(grid)
}

// drawRing connects the projected ring vertices with dotted segments.
func (m OrreryModel) drawRing(grid [][]rune, scr screen, o orrery.Orbit) {
	pts := o.Points()
	if len(pts) == 0 {
		return
	}
	prevX, prevY := scr.place(pts[len(pts)-1])
	for _, p := range pts {
		x, y := scr.place(p)
		drawSegment(grid, prevX, prevY, x, y)
		prevX, prevY = x, y
	}
}

func drawSegment(grid [][]rune, x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		if inBounds(grid, x0, y0) && grid[y0][x0] == ' ' {
			grid[y0][x0] = '·'
		}
		return
	}
	// Skip segments far larger than the screen.
	if steps > 4*(len(grid)+len(grid[0])) {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(dx)))
		y := y0 + int(math.Round(t*float64(dy)))
		if inBounds(grid, x, y) && grid[y][x] == ' ' {
			grid[y][x] = '·'
		}
	}
}

func bodyGlyph(b orrery.Body, focused bool) rune {
	switch {
	case !b.Positioned:
		return '◦'
	case b.Radius >= giantRadius:
		if focused {
			return '◉'
		}
		return '○'
	case focused:
		return '●'
	default:
		return '•'
	}
}

// renderLabels draws body labels to the right of their glyphs.
func (m OrreryModel) renderLabels(grid [][]rune, positions []bodyPos) {
	if m.labelMode == LabelNone {
		return
	}
	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}
		text := pos.name
		if pos.isFocused {
			text = "◄ " + pos.name
		}
		x := pos.x + 2
		for _, r := range text {
			if !inBounds(grid, x, pos.y) {
				break
			}
			if c := grid[pos.y][x]; c == ' ' || c == '·' {
				grid[pos.y][x] = r
			}
			x++
		}
	}
}

func renderGrid(grid [][]rune) string {
	var b strings.Builder

	ringStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	objectStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	giantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	for _, row := range grid {
		for _, ch := range row {
			var style lipgloss.Style
			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '·':
				style = ringStyle
			case '✦':
				style = objectStyle
			case '☉':
				style = sunStyle
			case '•':
				style = planetStyle
			case '○':
				style = giantStyle
			case '◦':
				style = pendingStyle
			case '●', '◉', '◄':
				style = focusStyle
			default:
				style = labelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

// formatRA renders a raw "H M S" right ascension, falling back to the raw
// text when it does not parse.
func formatRA(s string) string {
	ra, err := astro.ParseRA(s)
	if err != nil {
		return s
	}
	return fmt.Sprint(sexa.FmtRA(ra))
}

func formatDec(s string) string {
	dec, err := astro.ParseDec(s)
	if err != nil {
		return s
	}
	return fmt.Sprint(sexa.FmtAngle(dec))
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if body, ok := m.FocusedBody(); ok {
		b.WriteString(headerStyle.Render("◆ " + body.Name))
		if !body.Visible {
			b.WriteString(dimStyle.Render(" (hidden)"))
		}
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("State:"))
		b.WriteString(valueStyle.Render(body.State().String()))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Command:"))
		b.WriteString(valueStyle.Render(body.Command))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Distance:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f", body.SceneDistance)))
		b.WriteString("\n")

		b.WriteString(labelStyle.Render("Position:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("(%.2f, %.2f, %.2f)",
			body.Position.X, body.Position.Y, body.Position.Z)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Orbit:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", body.Orbit.Rotation*180/math.Pi)))
		b.WriteString("\n")

		if body.Positioned {
			b.WriteString(labelStyle.Render("RA:"))
			b.WriteString(valueStyle.Render(formatRA(body.Sample.RA)))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Dec:"))
			b.WriteString(valueStyle.Render(formatDec(body.Sample.Dec)))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Epoch:"))
			b.WriteString(valueStyle.Render(body.Sample.Epoch))
		} else {
			b.WriteString(dimStyle.Render("awaiting ephemeris"))
		}
	} else {
		b.WriteString(headerStyle.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("(scene origin)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rings, objects := "off", "off"
	if m.showRings {
		rings = "on"
	}
	if m.showObjects {
		objects = "on"
	}

	b.WriteString(dimStyle.Render("View:"))
	b.WriteString(valueStyle.Render(m.CameraView().Name))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.scaleMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Rings:"))
	b.WriteString(valueStyle.Render(rings))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Objects:"))
	b.WriteString(valueStyle.Render(objects))

	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
