package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	matchesCreated        int
	scoresRecorded        int
	calendarEventsCreated int
	calendarEventsFailed  int
	notifSent             int
	notifFailed           int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncScoresRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoresRecorded++
}

func (m *Mock) IncCalendarEventsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendarEventsCreated++
}

func (m *Mock) IncCalendarEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendarEventsFailed++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesCreated returns the number of times IncMatchesCreated was called.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// ScoresRecorded returns the number of times IncScoresRecorded was called.
func (m *Mock) ScoresRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoresRecorded
}

// CalendarEventsCreated returns the number of times IncCalendarEventsCreated was called.
func (m *Mock) CalendarEventsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calendarEventsCreated
}

// CalendarEventsFailed returns the number of times IncCalendarEventsFailed was called.
func (m *Mock) CalendarEventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calendarEventsFailed
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
