package metrics

import "math"

// Trend describes how a metric moved between the older and newer halves of
// a rolling window.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// StableEpsilon is the largest half-to-half change still reported as stable
const StableEpsilon = 1e-4

// WindowStats holds the summary of one metric over a rolling window
type WindowStats struct {
	Avg float64
	Min float64
	Max float64
}

// Summarize returns mean, min and max of values. An empty window is all zeroes.
func Summarize(values []float64) WindowStats {
	if len(values) == 0 {
		return WindowStats{}
	}

	stats := WindowStats{Min: values[0], Max: values[0]}
	var total float64
	for _, v := range values {
		total += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Avg = total / float64(len(values))

	return stats
}

// Mean returns the arithmetic mean of values, zero when empty
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// SplitHalves divides a newest-first window into the newer floor(n/2)
// readings and the older remainder.
func SplitHalves[T any](window []T) (recent, older []T) {
	half := len(window) / 2
	return window[:half], window[half:]
}

// SplitTrend compares the mean of the newer half of a newest-first window
// against the older half.
func SplitTrend(newestFirst []float64) Trend {
	if len(newestFirst) < 2 {
		return TrendInsufficientData
	}

	recent, older := SplitHalves(newestFirst)
	return CompareMeans(Mean(recent), Mean(older))
}

// CompareMeans classifies the change from olderAvg to recentAvg
func CompareMeans(recentAvg, olderAvg float64) Trend {
	diff := recentAvg - olderAvg

	switch {
	case math.Abs(diff) < StableEpsilon:
		return TrendStable
	case diff > 0:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}
