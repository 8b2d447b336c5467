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

type Server struct {
	Store          tennis.Store
	Sessions       *auth.SessionManager
	Calendar       gcal.Client
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
