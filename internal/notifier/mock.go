package notifier

import (
	"sync"

	"github.com/mauv0809/courtline/internal/tennis"
)

// Mock is a mock implementation of the Notifier interface for testing.
type Mock struct {
	mu sync.Mutex

	MatchScheduledFunc func(match *tennis.Match) error
	MatchCompletedFunc func(match *tennis.Match) error

	// Call records
	MatchScheduledCalls []tennis.Match
	MatchCompletedCalls []tennis.Match
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) MatchScheduled(match *tennis.Match) error {
	m.mu.Lock()
	m.MatchScheduledCalls = append(m.MatchScheduledCalls, *match)
	m.mu.Unlock()
	if m.MatchScheduledFunc != nil {
		return m.MatchScheduledFunc(match)
	}
	return nil
}

func (m *Mock) MatchCompleted(match *tennis.Match) error {
	m.mu.Lock()
	m.MatchCompletedCalls = append(m.MatchCompletedCalls, *match)
	m.mu.Unlock()
	if m.MatchCompletedFunc != nil {
		return m.MatchCompletedFunc(match)
	}
	return nil
}
