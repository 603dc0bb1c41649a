package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thisdougb/vitals/internal/core"
	"github.com/thisdougb/vitals/internal/metrics"
	"github.com/thisdougb/vitals/internal/storage"
)

// RouterConfig wires the HTTP surface. Limiter may be nil to disable rate
// limiting.
type RouterConfig struct {
	Service *core.Service
	Manager *storage.Manager
	Limiter Limiter
}

// NewRouter builds the full HTTP handler, CORS outermost
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID, RequestLogging, metrics.Middleware)

	api := r.PathPrefix("/api").Subrouter()
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter))
	}

	api.HandleFunc("/vitals", LogVitalHandler(cfg.Service)).Methods(http.MethodPost)
	api.HandleFunc("/vitals", HistoryHandler(cfg.Service)).Methods(http.MethodGet)
	api.HandleFunc("/vitals/analytics", AnalyticsHandler(cfg.Service)).Methods(http.MethodGet)
	api.HandleFunc("/vitals/{id:[0-9]+}", GetVitalHandler(cfg.Service)).Methods(http.MethodGet)

	if cfg.Manager != nil {
		admin := r.PathPrefix("/admin").Subrouter()
		admin.HandleFunc("/backup", BackupHandler(cfg.Manager)).Methods(http.MethodPost)
		admin.HandleFunc("/backups", ListBackupsHandler(cfg.Manager)).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", StatusHandler()).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return CORS(r)
}
