package core

import (
	"bytes"
	"errors"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/thisdougb/vitals/internal/metrics"
	"github.com/thisdougb/vitals/internal/storage"
)

// Settings carries the tunables the core needs. Zero values are not valid;
// start from DefaultSettings.
type Settings struct {
	WindowSize      int
	DefaultPageSize int
	MaxPageSize     int
	ClockSkew       time.Duration
}

// DefaultSettings returns the standard window, paging and skew values
func DefaultSettings() Settings {
	return Settings{
		WindowSize:      100,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		ClockSkew:       5 * time.Minute,
	}
}

// Clock provides the current time. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now().UTC()
}

// WallClock is the real-time Clock
var WallClock Clock = wallClock{}

// Timestamp is an ISO 8601 instant, normalised to UTC on decode
type Timestamp time.Time

// UnmarshalJSON accepts any ISO 8601 date-time string. A value without a
// zone is taken as UTC.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("timestamp must be an ISO 8601 string")
	}

	parsed, err := iso8601.Parse(bytes.Trim(b, `"`))
	if err != nil {
		return err
	}
	*ts = Timestamp(parsed.UTC())
	return nil
}

// MarshalJSON writes the instant as RFC 3339 in UTC
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(ts).UTC().MarshalJSON()
}

// Time returns the underlying UTC time
func (ts Timestamp) Time() time.Time {
	return time.Time(ts).UTC()
}

// VitalSubmission is a reading as posted by a client. Every field may be
// absent; Validate decides what is acceptable.
type VitalSubmission struct {
	DeviceID     *string    `json:"device_id"`
	Timestamp    *Timestamp `json:"timestamp"`
	ThermalValue *int       `json:"thermal_value"`
	BatteryLevel *float64   `json:"battery_level"`
	MemoryUsage  *float64   `json:"memory_usage"`
}

// Vital converts a validated submission to a storable reading
func (s *VitalSubmission) Vital() storage.Vital {
	return storage.Vital{
		DeviceID:     *s.DeviceID,
		Timestamp:    s.Timestamp.Time(),
		ThermalValue: *s.ThermalValue,
		BatteryLevel: *s.BatteryLevel,
		MemoryUsage:  *s.MemoryUsage,
	}
}

// AnalyticsResult is computed fresh on every request and never stored
type AnalyticsResult struct {
	TotalLogs         int64         `json:"total_logs"`
	RollingWindowLogs int           `json:"rolling_window_logs"`
	WindowSize        int           `json:"window_size"`
	AverageThermal    float64       `json:"average_thermal"`
	AverageBattery    float64       `json:"average_battery"`
	AverageMemory     float64       `json:"average_memory"`
	MinThermal        int           `json:"min_thermal"`
	MaxThermal        int           `json:"max_thermal"`
	MinBattery        float64       `json:"min_battery"`
	MaxBattery        float64       `json:"max_battery"`
	MinMemory         float64       `json:"min_memory"`
	MaxMemory         float64       `json:"max_memory"`
	TrendThermal      metrics.Trend `json:"trend_thermal"`
	TrendBattery      metrics.Trend `json:"trend_battery"`
	TrendMemory       metrics.Trend `json:"trend_memory"`
}

// PagedResult is one page of an ordered sequence with its paging flags
type PagedResult[T any] struct {
	Data            []T   `json:"data"`
	Page            int   `json:"page"`
	PageSize        int   `json:"page_size"`
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}
