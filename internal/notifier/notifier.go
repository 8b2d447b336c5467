package notifier

import "github.com/mauv0809/courtline/internal/tennis"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly scheduled matches
	MatchScheduled(match *tennis.Match) error
	// For matches whose score was just recorded
	MatchCompleted(match *tennis.Match) error
}

// Noop discards all notifications. Used when no provider is configured.
type Noop struct{}

var _ Notifier = (*Noop)(nil)

// NewNoop creates a notifier that does nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) MatchScheduled(match *tennis.Match) error {
	return nil
}

func (n *Noop) MatchCompleted(match *tennis.Match) error {
	return nil
}
