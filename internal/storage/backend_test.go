package storage

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var contractBase = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testVital(device string, offset time.Duration, thermal int) Vital {
	return Vital{
		DeviceID:     device,
		Timestamp:    contractBase.Add(offset),
		ThermalValue: thermal,
		BatteryLevel: 50.5,
		MemoryUsage:  42.25,
	}
}

// runBackendContract exercises the behaviour every Backend must share
func runBackendContract(t *testing.T, newBackend func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		b := newBackend(t)

		count, err := b.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(0), count)

		latest, err := b.Latest(ctx, 100)
		require.NoError(t, err)
		require.Empty(t, latest)

		page, total, err := b.Page(ctx, 1, 20)
		require.NoError(t, err)
		require.Empty(t, page)
		require.Equal(t, int64(0), total)
	})

	t.Run("insert assigns ids and normalises to UTC", func(t *testing.T) {
		b := newBackend(t)

		local := time.FixedZone("UTC+2", 2*60*60)
		v := testVital("device-1", 0, 2)
		v.Timestamp = v.Timestamp.In(local)

		first, err := b.Insert(ctx, v)
		require.NoError(t, err)
		require.Greater(t, first.ID, int64(0))
		require.Equal(t, time.UTC, first.Timestamp.Location())

		second, err := b.Insert(ctx, testVital("device-1", time.Minute, 1))
		require.NoError(t, err)
		require.NotEqual(t, first.ID, second.ID)

		got, err := b.Get(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, "device-1", got.DeviceID)
		require.True(t, contractBase.Equal(got.Timestamp))
		require.Equal(t, 2, got.ThermalValue)
		require.Equal(t, 50.5, got.BatteryLevel)
		require.Equal(t, 42.25, got.MemoryUsage)
	})

	t.Run("timestamps outside the unix nano range keep their instant and order", func(t *testing.T) {
		b := newBackend(t)

		early := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)
		late := time.Date(2300, 6, 1, 12, 0, 0, 500, time.UTC)

		old, err := b.Insert(ctx, Vital{DeviceID: "old", Timestamp: early, ThermalValue: 1})
		require.NoError(t, err)
		_, err = b.Insert(ctx, testVital("now", 0, 1))
		require.NoError(t, err)
		_, err = b.Insert(ctx, Vital{DeviceID: "late", Timestamp: late, ThermalValue: 1})
		require.NoError(t, err)

		got, err := b.Get(ctx, old.ID)
		require.NoError(t, err)
		require.True(t, early.Equal(got.Timestamp), "got %v", got.Timestamp)

		latest, err := b.Latest(ctx, 3)
		require.NoError(t, err)
		require.Len(t, latest, 3)
		require.Equal(t, "late", latest[0].DeviceID)
		require.Equal(t, "now", latest[1].DeviceID)
		require.Equal(t, "old", latest[2].DeviceID)
		require.True(t, late.Truncate(time.Microsecond).Equal(latest[0].Timestamp.Truncate(time.Microsecond)))
	})

	t.Run("get missing id", func(t *testing.T) {
		b := newBackend(t)

		_, err := b.Get(ctx, 9999)
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("latest is newest first regardless of insert order", func(t *testing.T) {
		b := newBackend(t)

		for _, offset := range []int{3, 1, 4, 0, 2} {
			_, err := b.Insert(ctx, testVital("d", time.Duration(offset)*time.Minute, offset%4))
			require.NoError(t, err)
		}

		latest, err := b.Latest(ctx, 3)
		require.NoError(t, err)
		require.Len(t, latest, 3)
		require.True(t, contractBase.Add(4*time.Minute).Equal(latest[0].Timestamp))
		require.True(t, contractBase.Add(3*time.Minute).Equal(latest[1].Timestamp))
		require.True(t, contractBase.Add(2*time.Minute).Equal(latest[2].Timestamp))

		all, err := b.Latest(ctx, 100)
		require.NoError(t, err)
		require.Len(t, all, 5)
	})

	t.Run("equal timestamps break ties by newest insert", func(t *testing.T) {
		b := newBackend(t)

		a, err := b.Insert(ctx, testVital("a", 0, 0))
		require.NoError(t, err)
		c, err := b.Insert(ctx, testVital("c", 0, 0))
		require.NoError(t, err)

		latest, err := b.Latest(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, c.ID, latest[0].ID)
		require.Equal(t, a.ID, latest[1].ID)
	})

	t.Run("pages", func(t *testing.T) {
		b := newBackend(t)

		for i := 0; i < 25; i++ {
			_, err := b.Insert(ctx, testVital("d", time.Duration(i)*time.Minute, i%4))
			require.NoError(t, err)
		}

		first, total, err := b.Page(ctx, 1, 10)
		require.NoError(t, err)
		require.Equal(t, int64(25), total)
		require.Len(t, first, 10)
		require.True(t, contractBase.Add(24*time.Minute).Equal(first[0].Timestamp))

		last, total, err := b.Page(ctx, 3, 10)
		require.NoError(t, err)
		require.Equal(t, int64(25), total)
		require.Len(t, last, 5)
		require.True(t, contractBase.Equal(last[4].Timestamp))

		beyond, _, err := b.Page(ctx, 4, 10)
		require.NoError(t, err)
		require.Empty(t, beyond)

		// (page-1)*pageSize does not fit an int
		unaddressable, total, err := b.Page(ctx, math.MaxInt/4+2, 4)
		require.NoError(t, err)
		require.Empty(t, unaddressable)
		require.Equal(t, int64(25), total)

		for i := 0; i+1 < len(first); i++ {
			require.False(t, first[i].Timestamp.Before(first[i+1].Timestamp))
		}
	})
}

func TestMemoryBackend_Contract(t *testing.T) {
	runBackendContract(t, func(t *testing.T) Backend {
		b := NewMemoryBackend()
		t.Cleanup(func() { b.Close() })
		return b
	})
}
