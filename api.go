package vitals

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thisdougb/vitals/internal/config"
	"github.com/thisdougb/vitals/internal/core"
	"github.com/thisdougb/vitals/internal/handlers"
	"github.com/thisdougb/vitals/internal/storage"
)

// Server is the vitals HTTP service over one store
type Server struct {
	manager *storage.Manager
	handler http.Handler
}

type options struct {
	redis *redis.Client
}

// Option configures New
type Option func(*options)

// WithRedis keeps rate limit counters in Redis, shared by every instance
// using the same server
func WithRedis(client *redis.Client) Option {
	return func(o *options) {
		o.redis = client
	}
}

// New creates a server from environment configuration. The store named by
// VITALS_STORAGE is opened, and migrated when it is SQL backed.
func New(opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	manager, err := storage.NewManagerFromConfig()
	if err != nil {
		return nil, err
	}

	settings := core.SettingsFromConfig()
	config.LogInfo(context.Background(), "vitals server configured")

	return newServer(manager, settings, handlers.NewLimiterFromConfig(o.redis)), nil
}

// NewWithBackend creates a server over an existing store, with no rate
// limiting and backups disabled.
func NewWithBackend(backend storage.Backend, settings core.Settings) *Server {
	return newServer(storage.NewManager(backend, storage.BackupConfig{}), settings, nil)
}

func newServer(manager *storage.Manager, settings core.Settings, limiter handlers.Limiter) *Server {
	service := core.NewService(manager, settings)

	return &Server{
		manager: manager,
		handler: handlers.NewRouter(handlers.RouterConfig{
			Service: service,
			Manager: manager,
			Limiter: limiter,
		}),
	}
}

// Handler returns the HTTP handler for every endpoint
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Backup snapshots the store now
func (s *Server) Backup() error {
	return s.manager.CreateBackup()
}

// BackupEnabled reports whether periodic backups should run
func (s *Server) BackupEnabled() bool {
	return s.manager.BackupEnabled()
}

// BackupInterval is the configured time between backups
func (s *Server) BackupInterval() time.Duration {
	return s.manager.BackupConfig().BackupInterval
}

// Close releases the store
func (s *Server) Close() error {
	return s.manager.Close()
}
