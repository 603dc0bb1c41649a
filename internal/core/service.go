package core

import (
	"context"
	"fmt"

	"github.com/thisdougb/vitals/internal/config"
	"github.com/thisdougb/vitals/internal/metrics"
	"github.com/thisdougb/vitals/internal/storage"
)

// Service runs the vitals operations against a Backend. It holds no
// per-request state.
type Service struct {
	backend  storage.Backend
	settings Settings
	clock    Clock
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock, for tests
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates a service over backend
func NewService(backend storage.Backend, settings Settings, opts ...Option) *Service {
	s := &Service{
		backend:  backend,
		settings: settings,
		clock:    WallClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SettingsFromConfig reads Settings from the environment, keeping defaults
// for values that are not positive.
func SettingsFromConfig() Settings {
	settings := DefaultSettings()

	if v := config.IntValue("VITALS_WINDOW_SIZE"); v > 0 {
		settings.WindowSize = v
	}
	if v := config.IntValue("VITALS_DEFAULT_PAGE_SIZE"); v > 0 {
		settings.DefaultPageSize = v
	}
	if v := config.IntValue("VITALS_MAX_PAGE_SIZE"); v > 0 {
		settings.MaxPageSize = v
	}
	if v := config.DurationValue("VITALS_CLOCK_SKEW"); v >= 0 {
		settings.ClockSkew = v
	}
	if settings.DefaultPageSize > settings.MaxPageSize {
		settings.DefaultPageSize = settings.MaxPageSize
	}

	return settings
}

// Settings returns the service settings
func (s *Service) Settings() Settings {
	return s.settings
}

// LogVital validates and stores one reading. A *ValidationError is returned
// for rejected submissions; nothing is written in that case.
func (s *Service) LogVital(ctx context.Context, sub *VitalSubmission) (storage.Vital, error) {
	if verr := Validate(sub, s.clock.Now(), s.settings.ClockSkew); verr != nil {
		metrics.IncrementVitalsRejected(verr.Code)
		config.LogDebug(ctx, fmt.Sprintf("rejected vital: %s", verr))
		return storage.Vital{}, verr
	}

	stored, err := s.backend.Insert(ctx, sub.Vital())
	if err != nil {
		return storage.Vital{}, err
	}

	metrics.IncrementVitalsLogged()
	config.LogDebug(ctx, fmt.Sprintf("stored vital %d for device %s", stored.ID, stored.DeviceID))

	return stored, nil
}

// History returns one page of readings, newest first
func (s *Service) History(ctx context.Context, page, pageSize int) (PagedResult[storage.Vital], error) {
	return PageHistory(ctx, s.backend, page, pageSize)
}

// Analytics returns rolling statistics over the configured window
func (s *Service) Analytics(ctx context.Context) (AnalyticsResult, error) {
	result, err := Analyze(ctx, s.backend, s.settings.WindowSize)
	if err != nil {
		return AnalyticsResult{}, err
	}

	metrics.SetRollingWindowLogs(result.RollingWindowLogs)
	return result, nil
}

// GetVital returns one stored reading
func (s *Service) GetVital(ctx context.Context, id int64) (storage.Vital, error) {
	return s.backend.Get(ctx, id)
}
