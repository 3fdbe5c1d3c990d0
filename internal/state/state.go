// Package state provides thread-safe ownership of the scene for the application.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/orrery"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventPositioned   EventType = "POSITIONED"
	EventUpdated      EventType = "UPDATED"
	EventUpdateFailed EventType = "UPDATE_FAILED"
	EventDateChanged  EventType = "DATE_CHANGED"
	EventCycle        EventType = "CYCLE"
)

// Event represents a change in the scene or a failed refresh.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	bodies  []orrery.Body
	index   map[string]int
	objects []orrery.Object
	date    time.Time

	lastRefresh     time.Time
	lastError       error
	refreshDuration time.Duration
	cycles          int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: 24 * time.Hour,
	}
}

// NewManager creates a state manager owning bodies. The initial date is
// today in UTC.
func NewManager(cfg Config, bodies []orrery.Body) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}

	m := &Manager{
		bodies:          make([]orrery.Body, len(bodies)),
		index:           make(map[string]int, len(bodies)),
		date:            Today(),
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
	copy(m.bodies, bodies)
	for i, b := range m.bodies {
		m.index[b.Name] = i
	}
	return m
}

// Today returns the current UTC date at midnight.
func Today() time.Time {
	return truncateDay(time.Now())
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Bodies returns a copy of every body in catalog order.
func (m *Manager) Bodies() []orrery.Body {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]orrery.Body, len(m.bodies))
	copy(out, m.bodies)
	return out
}

// Body returns a copy of the named body.
func (m *Manager) Body(name string) (orrery.Body, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[name]
	if !ok {
		return orrery.Body{}, false
	}
	return m.bodies[i], true
}

// ApplyBody commits a reconciled body. Position, orbit and sample are
// replaced together; visibility keeps its current value. It returns false
// if no body with that name exists.
func (m *Manager) ApplyBody(b orrery.Body) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[b.Name]
	if !ok {
		return false
	}

	cur := &m.bodies[i]
	first := !cur.Positioned && b.Positioned

	cur.Position = b.Position
	cur.Positioned = b.Positioned
	cur.Orbit = b.Orbit
	cur.Sample = b.Sample
	cur.UpdatedAt = b.UpdatedAt

	evType := EventUpdated
	if first {
		evType = EventPositioned
	}
	m.addEvent(Event{
		Type:      evType,
		Timestamp: time.Now(),
		Body:      b.Name,
		Outcome:   orrery.OutcomeUpdated.String(),
		Detail:    fmt.Sprintf("RA %s Dec %s", b.Sample.RA, b.Sample.Dec),
	})
	return true
}

// RecordCycle stores the result of a refresh cycle.
func (m *Manager) RecordCycle(r orrery.CycleReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRefresh = r.Started.Add(r.Duration)
	m.refreshDuration = r.Duration
	m.lastError = nil
	m.cycles++

	for _, res := range r.Results {
		if res.Err == nil {
			continue
		}
		m.lastError = fmt.Errorf("%s: %w", res.Name, res.Err)
		m.addEvent(Event{
			Type:      EventUpdateFailed,
			Timestamp: m.lastRefresh,
			Body:      res.Name,
			Outcome:   res.Outcome.String(),
			Detail:    res.Err.Error(),
		})
	}

	detail := fmt.Sprintf("%s: %d updated, %d failed", r.Date.Format("2006-01-02"), r.Updated(), r.Failed())
	if r.Canceled {
		detail += " (canceled)"
	}
	m.addEvent(Event{
		Type:      EventCycle,
		Timestamp: m.lastRefresh,
		Detail:    detail,
	})
}

// Date returns the ephemeris date used by refreshes.
func (m *Manager) Date() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.date
}

// SetDate changes the ephemeris date, truncated to the UTC day.
// It returns the stored date.
func (m *Manager) SetDate(d time.Time) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	d = truncateDay(d)
	if !d.Equal(m.date) {
		m.date = d
		m.addEvent(Event{
			Type:      EventDateChanged,
			Timestamp: time.Now(),
			Detail:    d.Format("2006-01-02"),
		})
	}
	return m.date
}

// ShiftDate moves the ephemeris date by days and returns the new date.
func (m *Manager) ShiftDate(days int) time.Time {
	return m.SetDate(m.Date().AddDate(0, 0, days))
}

// SetVisible sets the named body's visibility. Position is untouched.
func (m *Manager) SetVisible(name string, visible bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[name]
	if !ok {
		return false
	}
	m.bodies[i].Visible = visible
	return true
}

// ToggleVisible flips the named body's visibility and returns the new value.
func (m *Manager) ToggleVisible(name string) (visible, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[name]
	if !ok {
		return false, false
	}
	m.bodies[i].Visible = !m.bodies[i].Visible
	return m.bodies[i].Visible, true
}

// SetObjects replaces the static background objects.
func (m *Manager) SetObjects(objs []orrery.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = make([]orrery.Object, len(objs))
	copy(m.objects, objs)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Bodies          []orrery.Body
	Objects         []orrery.Object
	Date            time.Time
	LastRefresh     time.Time
	LastError       error
	RefreshDuration time.Duration
	Cycles          int
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bodies := make([]orrery.Body, len(m.bodies))
	copy(bodies, m.bodies)

	objs := make([]orrery.Object, len(m.objects))
	copy(objs, m.objects)

	return Snapshot{
		Bodies:          bodies,
		Objects:         objs,
		Date:            m.date,
		LastRefresh:     m.lastRefresh,
		LastError:       m.lastError,
		RefreshDuration: m.refreshDuration,
		Cycles:          m.cycles,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}
