package core

import (
	"context"

	"github.com/thisdougb/vitals/internal/metrics"
	"github.com/thisdougb/vitals/internal/storage"
)

// Analyze computes rolling statistics over the newest windowSize readings.
//
// An empty store reports RollingWindowLogs as windowSize, not zero.
// WindowSize always carries the configured size.
func Analyze(ctx context.Context, backend storage.Backend, windowSize int) (AnalyticsResult, error) {
	total, err := backend.Count(ctx)
	if err != nil {
		return AnalyticsResult{}, err
	}

	window, err := backend.Latest(ctx, windowSize)
	if err != nil {
		return AnalyticsResult{}, err
	}

	result := AnalyticsResult{
		TotalLogs:    total,
		WindowSize:   windowSize,
		TrendThermal: metrics.TrendInsufficientData,
		TrendBattery: metrics.TrendInsufficientData,
		TrendMemory:  metrics.TrendInsufficientData,
	}

	if len(window) == 0 {
		result.RollingWindowLogs = windowSize
		return result, nil
	}

	thermal, battery, memory := columns(window)

	t := metrics.Summarize(thermal)
	b := metrics.Summarize(battery)
	m := metrics.Summarize(memory)

	result.RollingWindowLogs = len(window)
	result.AverageThermal = t.Avg
	result.MinThermal = int(t.Min)
	result.MaxThermal = int(t.Max)
	result.AverageBattery = b.Avg
	result.MinBattery = b.Min
	result.MaxBattery = b.Max
	result.AverageMemory = m.Avg
	result.MinMemory = m.Min
	result.MaxMemory = m.Max

	// all three trends share one recent/older partition of the window
	result.TrendThermal = metrics.SplitTrend(thermal)
	result.TrendBattery = metrics.SplitTrend(battery)
	result.TrendMemory = metrics.SplitTrend(memory)

	return result, nil
}

// columns splits a newest-first window into per-metric series, keeping order
func columns(window []storage.Vital) (thermal, battery, memory []float64) {
	thermal = make([]float64, len(window))
	battery = make([]float64, len(window))
	memory = make([]float64, len(window))

	for i, v := range window {
		thermal[i] = float64(v.ThermalValue)
		battery[i] = v.BatteryLevel
		memory[i] = v.MemoryUsage
	}
	return thermal, battery, memory
}
