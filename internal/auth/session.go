package auth

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	SessionCookieName = "session_id"
	SessionDuration   = 24 * time.Hour
)

// Session is the typed per-browser session record. Token is nil until the
// user has linked a Google account.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Name      string
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Connected reports whether a token pair is present. It does not validate
// the token against the provider; a revoked token is only discovered on use.
func (s *Session) Connected() bool {
	return s != nil && s.Token != nil && s.Token.AccessToken != ""
}

// SessionManager stores sessions in the database and manages the cookie.
type SessionManager struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(db *sql.DB) *SessionManager {
	return &SessionManager{db: db}
}

// Create persists a new session for the user and sets the cookie. The
// session id is assigned here.
func (sm *SessionManager) Create(w http.ResponseWriter, session *Session) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()
	session.ExpiresAt = session.CreatedAt.Add(SessionDuration)

	var accessToken, refreshToken string
	var tokenExpiry int64
	if session.Token != nil {
		accessToken = session.Token.AccessToken
		refreshToken = session.Token.RefreshToken
		if !session.Token.Expiry.IsZero() {
			tokenExpiry = session.Token.Expiry.Unix()
		}
	}

	_, err := sm.db.Exec(`
		INSERT INTO sessions (id, user_id, email, name, access_token, refresh_token, token_expiry, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Email, session.Name,
		accessToken, refreshToken, tokenExpiry,
		session.CreatedAt.Unix(), session.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get retrieves the session from the request cookie. A missing cookie, an
// unknown id or an expired session all yield (nil, nil).
func (sm *SessionManager) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, nil // no cookie = no session
	}

	row := sm.db.QueryRow(`
		SELECT id, user_id, email, name, access_token, refresh_token, token_expiry, created_at, expires_at
		FROM sessions WHERE id = ?`,
		cookie.Value,
	)

	var session Session
	var email, name, accessToken, refreshToken sql.NullString
	var tokenExpiry, createdAt, expiresAt int64
	err = row.Scan(
		&session.ID, &session.UserID, &email, &name,
		&accessToken, &refreshToken, &tokenExpiry, &createdAt, &expiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session.Email = email.String
	session.Name = name.String
	session.CreatedAt = time.Unix(createdAt, 0)
	session.ExpiresAt = time.Unix(expiresAt, 0)

	if time.Now().After(session.ExpiresAt) {
		log.Debug("Ignoring expired session", "sessionID", session.ID)
		return nil, nil
	}

	if accessToken.String != "" || refreshToken.String != "" {
		session.Token = &oauth2.Token{
			AccessToken:  accessToken.String,
			RefreshToken: refreshToken.String,
		}
		if tokenExpiry > 0 {
			session.Token.Expiry = time.Unix(tokenExpiry, 0)
		}
	}
	return &session, nil
}

// Delete removes the current session and clears the cookie.
func (sm *SessionManager) Delete(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	sm.mu.Lock()
	_, err = sm.db.Exec("DELETE FROM sessions WHERE id = ?", cookie.Value)
	sm.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return nil
}
