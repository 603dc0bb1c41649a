package core

import (
	"context"
	"errors"
	"time"

	"github.com/thisdougb/vitals/internal/storage"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
func tsPtr(t time.Time) *Timestamp { ts := Timestamp(t); return &ts }

func validSubmission() *VitalSubmission {
	return &VitalSubmission{
		DeviceID:     strPtr("device-1"),
		Timestamp:    tsPtr(testNow.Add(-time.Minute)),
		ThermalValue: intPtr(1),
		BatteryLevel: floatPtr(80),
		MemoryUsage:  floatPtr(45.5),
	}
}

// seed inserts readings one minute apart, oldest first
func seed(backend storage.Backend, thermal []int, battery, memory []float64) {
	for i := range thermal {
		backend.Insert(context.Background(), storage.Vital{
			DeviceID:     "device-1",
			Timestamp:    testNow.Add(-time.Hour).Add(time.Duration(i) * time.Minute),
			ThermalValue: thermal[i],
			BatteryLevel: battery[i],
			MemoryUsage:  memory[i],
		})
	}
}

var errStore = errors.New("store unavailable")

// failingBackend fails every call and counts inserts
type failingBackend struct {
	inserts int
}

func (f *failingBackend) Insert(ctx context.Context, v storage.Vital) (storage.Vital, error) {
	f.inserts++
	return storage.Vital{}, errStore
}

func (f *failingBackend) Count(ctx context.Context) (int64, error) { return 0, errStore }

func (f *failingBackend) Latest(ctx context.Context, n int) ([]storage.Vital, error) {
	return nil, errStore
}

func (f *failingBackend) Page(ctx context.Context, page, pageSize int) ([]storage.Vital, int64, error) {
	return nil, 0, errStore
}

func (f *failingBackend) Get(ctx context.Context, id int64) (storage.Vital, error) {
	return storage.Vital{}, errStore
}

func (f *failingBackend) Close() error { return nil }
