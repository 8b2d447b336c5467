package tennis

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const matchColumns = "id, user_id, player1, player2, date, start_time, duration, surface, season, score1, score2, status"

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (Match, error) {
	var m Match
	var startTime, score1, score2 sql.NullString
	var duration sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Player1, &m.Player2, &m.Date,
		&startTime, &duration, &m.Surface, &m.Season,
		&score1, &score2, &m.Status,
	)
	if err != nil {
		return Match{}, err
	}

	if startTime.Valid {
		m.StartTime = &startTime.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		m.Duration = &d
	}
	if score1.Valid {
		m.Score1 = &score1.String
	}
	if score2.Valid {
		m.Score2 = &score2.String
	}
	return m, nil
}

func (s *store) queryMatches(query string, args ...any) ([]Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// ListMatches returns the user's matches, most recent first.
func (s *store) ListMatches(userID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(
		"SELECT "+matchColumns+" FROM matches WHERE user_id = ? ORDER BY date DESC, start_time DESC",
		userID,
	)
}

// CompletedMatches returns the user's completed matches, most recent first.
func (s *store) CompletedMatches(userID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(
		"SELECT "+matchColumns+" FROM matches WHERE user_id = ? AND status = ? ORDER BY date DESC, start_time DESC",
		userID, StatusCompleted,
	)
}

func (s *store) GetMatch(userID string, id int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT "+matchColumns+" FROM matches WHERE user_id = ? AND id = ?",
		userID, id,
	)
	match, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &match, nil
}

// CreateMatch inserts a new scheduled match and auto-creates the opponent as
// a player when not already present. The two inserts are deliberately
// separate statements; the read path tolerates a match without a player row.
func (s *store) CreateMatch(userID string, match *Match) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("INSERT OR IGNORE INTO players (user_id, name) VALUES (?, ?)", userID, match.Player2)
	if err != nil {
		return 0, fmt.Errorf("failed to save opponent: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO matches (user_id, player1, player2, date, start_time, duration, surface, season, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, match.Player1, match.Player2, match.Date, match.StartTime, match.Duration,
		match.Surface, match.Season, StatusScheduled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	return res.LastInsertId()
}

// UpdateMatch replaces all mutable fields of a match owned by the user.
func (s *store) UpdateMatch(userID string, id int64, match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE matches
		SET player1 = ?, player2 = ?, date = ?, start_time = ?, duration = ?, surface = ?, season = ?, score1 = ?, score2 = ?, status = ?
		WHERE id = ? AND user_id = ?`,
		match.Player1, match.Player2, match.Date, match.StartTime, match.Duration,
		match.Surface, match.Season, match.Score1, match.Score2, match.Status,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", id, err)
	}
	return requireRow(res)
}

// UpdateScore records the set scores and forces the match to completed,
// regardless of its prior status.
func (s *store) UpdateScore(userID string, id int64, score1, score2 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE matches SET score1 = ?, score2 = ?, status = ? WHERE id = ? AND user_id = ?",
		score1, score2, StatusCompleted, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update score for match %d: %w", id, err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// DeleteMatch removes a match. Deleting an id that does not exist (or is not
// owned by the user) is not an error.
func (s *store) DeleteMatch(userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM matches WHERE id = ? AND user_id = ?", id, userID)
	return err
}

// ListPlayers returns the user's opponents ordered by how often they appear
// as the opponent of a match, most frequent first, ties by name.
func (s *store) ListPlayers(userID string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.name, COUNT(m.id) AS match_count
		FROM players p
		LEFT JOIN matches m ON m.player2 = p.name AND m.user_id = p.user_id
		WHERE p.user_id = ?
		GROUP BY p.name
		ORDER BY match_count DESC, p.name ASC`,
		userID,
	)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	players := []PlayerInfo{}
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.Name, &p.MatchCount); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// AddPlayer creates an opponent. A duplicate name for the same user returns
// ErrPlayerExists.
func (s *store) AddPlayer(userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("INSERT INTO players (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		// Both the sqlite3 and libsql drivers surface the uniqueness
		// violation with this message.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrPlayerExists
		}
		return fmt.Errorf("failed to add player: %w", err)
	}
	return nil
}

// DeletePlayer removes an opponent. Matches referencing the name are left
// untouched; the dangling reference is tolerated on read.
func (s *store) DeletePlayer(userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM players WHERE user_id = ? AND name = ?", userID, name)
	return err
}

// ListSeasons returns the distinct season labels of the user's matches,
// lexically descending.
func (s *store) ListSeasons(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT DISTINCT season FROM matches WHERE user_id = ? ORDER BY season DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := []string{}
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			log.Error("Failed to scan season row", "error", err)
			continue
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// GetSettings materializes the user's settings, applying defaults for any
// key that has never been written.
func (s *store) GetSettings(userID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT key, value FROM settings WHERE user_id = ?", userID)
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Error("Failed to scan settings row", "error", err)
			continue
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	settings := Settings{
		UserName:         values["user_name"],
		DefaultStartTime: DefaultStartTime,
		DefaultDuration:  DefaultDuration,
		Surfaces:         DefaultSurfaces,
	}
	if v := values["default_start_time"]; v != "" {
		settings.DefaultStartTime = v
	}
	if v := values["default_duration"]; v != "" {
		settings.DefaultDuration = v
	}
	if v := values["surfaces"]; v != "" {
		settings.Surfaces = strings.Split(v, ",")
	}
	return settings, nil
}

// SaveSettings upserts the provided fields, leaving the rest untouched.
func (s *store) SaveSettings(userID string, update SettingsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	upsert := func(key, value string) error {
		_, err := s.db.Exec(
			"INSERT OR REPLACE INTO settings (user_id, key, value) VALUES (?, ?, ?)",
			userID, key, value,
		)
		return err
	}

	if update.UserName != nil {
		if err := upsert("user_name", *update.UserName); err != nil {
			return err
		}
	}
	if update.DefaultStartTime != nil {
		if err := upsert("default_start_time", *update.DefaultStartTime); err != nil {
			return err
		}
	}
	if update.DefaultDuration != nil {
		if err := upsert("default_duration", *update.DefaultDuration); err != nil {
			return err
		}
	}
	if update.Surfaces != nil {
		if err := upsert("surfaces", strings.Join(update.Surfaces, ",")); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) HasSettings(userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM settings WHERE user_id = ?)", userID).Scan(&exists)
	return exists, err
}

// SeedDefaultSettings writes the default settings rows for a first-time user.
func (s *store) SeedDefaultSettings(userID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := [][2]string{
		{"user_name", userName},
		{"default_start_time", DefaultStartTime},
		{"default_duration", DefaultDuration},
		{"surfaces", strings.Join(DefaultSurfaces, ",")},
	}
	for _, kv := range defaults {
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO settings (user_id, key, value) VALUES (?, ?, ?)",
			userID, kv[0], kv[1],
		)
		if err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}
	log.Info("Seeded default settings", "userID", userID)
	return nil
}
