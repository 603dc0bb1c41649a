package storage

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrNotFound is returned by Get when no reading has the requested id.
var ErrNotFound = errors.New("vital not found")

// Backend defines the interface for all vital record stores. Every read is
// ordered by timestamp descending, ties broken by id descending.
type Backend interface {
	Insert(ctx context.Context, vital Vital) (Vital, error)
	Count(ctx context.Context) (int64, error)
	Latest(ctx context.Context, n int) ([]Vital, error)
	Page(ctx context.Context, page, pageSize int) ([]Vital, int64, error)
	Get(ctx context.Context, id int64) (Vital, error)
	Close() error
}

// Vital represents a single stored device reading
type Vital struct {
	ID           int64     `json:"id"`
	DeviceID     string    `json:"device_id"`
	Timestamp    time.Time `json:"timestamp"`
	ThermalValue int       `json:"thermal_value"` // 0 (nominal) to 3 (critical)
	BatteryLevel float64   `json:"battery_level"` // percent
	MemoryUsage  float64   `json:"memory_usage"`  // percent
}

// newerFirst reports whether a sorts before b in history order.
func newerFirst(a, b Vital) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.ID > b.ID
	}
	return a.Timestamp.After(b.Timestamp)
}

// pageOffset returns the row offset for a 1-based page. Offsets that do not
// fit an int saturate at math.MaxInt, which is past every stored row.
func pageOffset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
