package http

import (
	"net/http"

	"github.com/mauv0809/courtline/internal/auth"
	"github.com/mauv0809/courtline/internal/config"
	"github.com/mauv0809/courtline/internal/gcal"
	"github.com/mauv0809/courtline/internal/metrics"
	"github.com/mauv0809/courtline/internal/notifier"
	"github.com/mauv0809/courtline/internal/tennis"
)

func NewServer(store tennis.Store, sessions *auth.SessionManager, calendar gcal.Client, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Sessions:       sessions,
		Calendar:       calendar,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Routes under /api (other than the OAuth flow itself) additionally
	// require a session.
	requireSession := Middleware(auth.RequireSession(s.Sessions))

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), loggingMiddleware))

	s.Router.Handle("GET /api/auth/google/url", Chain(s.GoogleAuthURLHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/auth/google/callback", Chain(s.GoogleCallbackHandler(), loggingMiddleware))
	s.Router.Handle("GET /api/auth/google/status", Chain(s.GoogleStatusHandler(), loggingMiddleware))
	s.Router.Handle("POST /api/auth/logout", Chain(s.LogoutHandler(), loggingMiddleware))

	s.Router.Handle("GET /api/init", Chain(s.InitHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/settings", Chain(s.GetSettingsHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("POST /api/settings", Chain(s.SaveSettingsHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("POST /api/players", Chain(s.AddPlayerHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("DELETE /api/players/{name}", Chain(s.DeletePlayerHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/matches", Chain(s.ListMatchesHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("POST /api/matches", Chain(s.CreateMatchHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("PUT /api/matches/{id}", Chain(s.UpdateMatchHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("PUT /api/matches/{id}/score", Chain(s.UpdateScoreHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("DELETE /api/matches/{id}", Chain(s.DeleteMatchHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/seasons", Chain(s.ListSeasonsHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/stats", Chain(s.StatsHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("GET /api/stats/head-to-head", Chain(s.HeadToHeadHandler(), loggingMiddleware, requireSession))
	s.Router.Handle("POST /api/calendar/event", Chain(s.CalendarEventHandler(), loggingMiddleware, requireSession))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
