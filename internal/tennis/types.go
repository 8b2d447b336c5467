package tennis

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for the tracker.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusCompleted MatchStatus = "completed"
)

var (
	// ErrPlayerExists is returned when adding a player name that is already taken for the user.
	ErrPlayerExists = errors.New("player already exists")
	// ErrMatchNotFound is returned when an update targets a match the user does not own.
	ErrMatchNotFound = errors.New("match not found")
)

// Match is a single scheduled or completed match. Score1/Score2 hold the
// owner's and the opponent's games per set as comma-separated strings
// ("6,4,7") and are nil until a score is recorded.
type Match struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"-"`
	Player1   string      `json:"player1"`
	Player2   string      `json:"player2"`
	Date      string      `json:"date"`
	StartTime *string     `json:"start_time"`
	Duration  *int        `json:"duration"`
	Surface   string      `json:"surface"`
	Season    string      `json:"season"`
	Score1    *string     `json:"score1"`
	Score2    *string     `json:"score2"`
	Status    MatchStatus `json:"status"`
}

// PlayerInfo is an opponent with the number of matches played against them.
type PlayerInfo struct {
	Name       string `json:"name"`
	MatchCount int    `json:"match_count"`
}

// DefaultSurfaces is the surface registry seeded for new users.
var DefaultSurfaces = []string{"Clay", "Grass", "Hard", "Carpet"}

const (
	DefaultStartTime = "10:00"
	DefaultDuration  = "90"
)

// Settings is the per-user configuration, materialized from key/value rows.
type Settings struct {
	UserName         string   `json:"userName"`
	DefaultStartTime string   `json:"defaultStartTime"`
	DefaultDuration  string   `json:"defaultDuration"`
	Surfaces         []string `json:"surfaces"`
}

// SettingsUpdate is a partial settings write; nil fields are left untouched.
type SettingsUpdate struct {
	UserName         *string
	DefaultStartTime *string
	DefaultDuration  *string
	Surfaces         []string
}
