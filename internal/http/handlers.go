package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtline/internal/auth"
	"github.com/mauv0809/courtline/internal/gcal"
	"github.com/mauv0809/courtline/internal/stats"
	"github.com/mauv0809/courtline/internal/tennis"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// InitHandler returns everything the frontend needs on first load in a
// single round trip.
func (s *Server) InitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		matches, err := s.Store.ListMatches(session.UserID)
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load data")
			return
		}
		seasons, err := s.Store.ListSeasons(session.UserID)
		if err != nil {
			log.Error("Failed to list seasons", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load data")
			return
		}
		settings, err := s.Store.GetSettings(session.UserID)
		if err != nil {
			log.Error("Failed to load settings", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load data")
			return
		}
		players, err := s.Store.ListPlayers(session.UserID)
		if err != nil {
			log.Error("Failed to list players", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load data")
			return
		}

		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"matches":         matches,
			"seasons":         seasons,
			"settings":        settings,
			"players":         names,
			"googleConnected": session.Connected(),
		})
	}
}

func (s *Server) GoogleAuthURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"url": s.Calendar.AuthCodeURL()})
	}
}

// GoogleCallbackHandler completes the OAuth flow. It runs inside the popup
// window, so the response is a small HTML page that notifies the opener and
// closes itself.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			respondError(w, http.StatusBadRequest, "Missing authorization code")
			return
		}

		token, err := s.Calendar.Exchange(r.Context(), code)
		if err != nil {
			log.Error("Failed to exchange authorization code", "error", err)
			respondError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}

		info, err := s.Calendar.FetchUserInfo(r.Context(), token)
		if err != nil {
			log.Error("Failed to fetch user info", "error", err)
			respondError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}

		userID := info.ID
		if userID == "" {
			userID = info.Email
		}
		if userID == "" {
			userID = "default"
		}

		hasSettings, err := s.Store.HasSettings(userID)
		if err != nil {
			log.Error("Failed to check settings", "error", err, "userID", userID)
			respondError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}
		if !hasSettings {
			userName := info.GivenName
			if userName == "" {
				userName = "Player"
			}
			if err := s.Store.SeedDefaultSettings(userID, userName); err != nil {
				log.Error("Failed to seed settings", "error", err, "userID", userID)
				respondError(w, http.StatusInternalServerError, "Authentication failed")
				return
			}
		}

		session := &auth.Session{
			UserID: userID,
			Email:  info.Email,
			Name:   info.Name,
			Token:  token,
		}
		if err := s.Sessions.Create(w, session); err != nil {
			log.Error("Failed to create session", "error", err, "userID", userID)
			respondError(w, http.StatusInternalServerError, "Authentication failed")
			return
		}

		log.Info("User authenticated", "userID", userID, "email", info.Email)

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<body>
<script>
if (window.opener) {
	window.opener.postMessage({ type: 'OAUTH_AUTH_SUCCESS' }, '*');
}
window.close();
</script>
</body>
</html>`)
	}
}

func (s *Server) GoogleStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Sessions.Get(r)
		if err != nil {
			log.Error("Failed to load session", "error", err)
		}
		if session == nil {
			respondJSON(w, http.StatusOK, map[string]any{"connected": false, "user": nil})
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"connected": session.Connected(),
			"user": map[string]string{
				"email": session.Email,
				"name":  session.Name,
			},
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Sessions.Delete(w, r); err != nil {
			log.Error("Failed to delete session", "error", err)
			respondError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

type calendarEventRequest struct {
	Opponent  string `json:"opponent"`
	Surface   string `json:"surface"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

// CalendarEventHandler places a match on the user's Google calendar. A
// provider failure is reported to the client but never touches stored data.
func (s *Server) CalendarEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())
		if !session.Connected() {
			respondError(w, http.StatusUnauthorized, "Not connected to Google Calendar")
			return
		}

		var req calendarEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Opponent == "" || req.Date == "" || req.StartTime == "" {
			respondError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		event := gcal.Event{
			Opponent:  req.Opponent,
			Surface:   req.Surface,
			Date:      req.Date,
			StartTime: req.StartTime,
			Duration:  req.Duration,
		}
		if err := s.Calendar.CreateEvent(r.Context(), session.Token, event); err != nil {
			s.Metrics.IncCalendarEventsFailed()
			log.Error("Failed to create calendar event", "error", err, "userID", session.UserID)
			respondError(w, http.StatusInternalServerError, "Failed to create calendar event")
			return
		}

		s.Metrics.IncCalendarEventsCreated()
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		settings, err := s.Store.GetSettings(session.UserID)
		if err != nil {
			log.Error("Failed to load settings", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		respondJSON(w, http.StatusOK, settings)
	}
}

type settingsRequest struct {
	UserName         *string      `json:"userName"`
	DefaultStartTime *string      `json:"defaultStartTime"`
	DefaultDuration  *json.Number `json:"defaultDuration"`
	Surfaces         []string     `json:"surfaces"`
}

func (s *Server) SaveSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		update := tennis.SettingsUpdate{
			UserName:         req.UserName,
			DefaultStartTime: req.DefaultStartTime,
			Surfaces:         req.Surfaces,
		}
		if req.DefaultDuration != nil {
			duration := req.DefaultDuration.String()
			update.DefaultDuration = &duration
		}

		if err := s.Store.SaveSettings(session.UserID, update); err != nil {
			log.Error("Failed to save settings", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		players, err := s.Store.ListPlayers(session.UserID)
		if err != nil {
			log.Error("Failed to list players", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load players")
			return
		}

		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name
		}
		respondJSON(w, http.StatusOK, names)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			respondError(w, http.StatusBadRequest, "Missing player name")
			return
		}

		if err := s.Store.AddPlayer(session.UserID, req.Name); err != nil {
			if errors.Is(err, tennis.ErrPlayerExists) {
				respondError(w, http.StatusBadRequest, "Player already exists")
				return
			}
			log.Error("Failed to add player", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to add player")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		if err := s.Store.DeletePlayer(session.UserID, r.PathValue("name")); err != nil {
			log.Error("Failed to delete player", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to delete player")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		matches, err := s.Store.ListMatches(session.UserID)
		if err != nil {
			log.Error("Failed to list matches", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load matches")
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		var match tennis.Match
		if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if match.Player2 == "" || match.Date == "" || match.Surface == "" || match.Season == "" {
			respondError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		id, err := s.Store.CreateMatch(session.UserID, &match)
		if err != nil {
			log.Error("Failed to create match", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to create match")
			return
		}

		s.Metrics.IncMatchesCreated()
		match.ID = id
		if err := s.Notifier.MatchScheduled(&match); err != nil {
			log.Error("Failed to send scheduled notification", "error", err, "matchID", id)
		}

		respondJSON(w, http.StatusOK, map[string]int64{"id": id})
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid match id")
			return
		}

		var match tennis.Match
		if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if match.Status == "" {
			match.Status = tennis.StatusScheduled
		}

		if err := s.Store.UpdateMatch(session.UserID, id, &match); err != nil {
			if errors.Is(err, tennis.ErrMatchNotFound) {
				respondError(w, http.StatusNotFound, "Match not found")
				return
			}
			log.Error("Failed to update match", "error", err, "matchID", id)
			respondError(w, http.StatusInternalServerError, "Failed to update match")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) UpdateScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid match id")
			return
		}

		var req struct {
			Score1 string `json:"score1"`
			Score2 string `json:"score2"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Score1 == "" || req.Score2 == "" {
			respondError(w, http.StatusBadRequest, "Missing scores")
			return
		}

		if err := s.Store.UpdateScore(session.UserID, id, req.Score1, req.Score2); err != nil {
			if errors.Is(err, tennis.ErrMatchNotFound) {
				respondError(w, http.StatusNotFound, "Match not found")
				return
			}
			log.Error("Failed to update score", "error", err, "matchID", id)
			respondError(w, http.StatusInternalServerError, "Failed to update score")
			return
		}

		s.Metrics.IncScoresRecorded()
		if match, err := s.Store.GetMatch(session.UserID, id); err == nil {
			if err := s.Notifier.MatchCompleted(match); err != nil {
				log.Error("Failed to send completed notification", "error", err, "matchID", id)
			}
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid match id")
			return
		}

		if err := s.Store.DeleteMatch(session.UserID, id); err != nil {
			log.Error("Failed to delete match", "error", err, "matchID", id)
			respondError(w, http.StatusInternalServerError, "Failed to delete match")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		seasons, err := s.Store.ListSeasons(session.UserID)
		if err != nil {
			log.Error("Failed to list seasons", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load seasons")
			return
		}
		respondJSON(w, http.StatusOK, seasons)
	}
}

// HeadToHeadHandler returns the aggregate against one opponent on one
// surface, or a null body when no completed match qualifies. Opponent and
// surface names match by exact, case-sensitive equality.
func (s *Server) HeadToHeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		opponent := r.URL.Query().Get("opponent")
		surface := r.URL.Query().Get("surface")
		if opponent == "" || surface == "" {
			respondError(w, http.StatusBadRequest, "Missing opponent or surface")
			return
		}

		completed, err := s.Store.CompletedMatches(session.UserID)
		if err != nil {
			log.Error("Failed to list completed matches", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load stats")
			return
		}

		respondJSON(w, http.StatusOK, stats.ComputeHeadToHead(completed, opponent, surface))
	}
}

// StatsHandler returns the completed matches together with the derived
// aggregates, so the frontend computes nothing itself.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())

		completed, err := s.Store.CompletedMatches(session.UserID)
		if err != nil {
			log.Error("Failed to list completed matches", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load stats")
			return
		}
		settings, err := s.Store.GetSettings(session.UserID)
		if err != nil {
			log.Error("Failed to load settings", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load stats")
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"totalGames": len(completed),
			"matches":    completed,
			"summary":    stats.Summarize(completed),
			"surfaces":   stats.PerSurfaceBreakdown(completed, settings.Surfaces),
		})
	}
}
