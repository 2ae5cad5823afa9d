package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"nbadash/internal/gamelog"
)

// Summary holds descriptive statistics of one series. Variance and Std are
// population measures (divide by n).
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize computes a Summary. An empty series yields all zeros.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	mean, variance := stat.PopMeanVariance(xs, nil)
	if variance < 0 {
		variance = 0
	}

	return Summary{
		Count:    len(xs),
		Mean:     mean,
		Variance: variance,
		Std:      math.Sqrt(variance),
		Min:      floats.Min(xs),
		Max:      floats.Max(xs),
	}
}

// Correlation returns the Pearson correlation of xs and ys over their common
// prefix. It is 0 when fewer than two pairs exist or either side is constant.
func Correlation(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 2 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]

	if constant(xs) || constant(ys) {
		return 0
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Default stat keys for the summary tables and correlation matrix
var DefaultKeys = []string{gamelog.ColPoints, gamelog.ColRebounds, gamelog.ColAssists}

// Values extracts one stat from each row. Null values count as 0.
func Values(rows []gamelog.Row, key string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		v, _ := r.Stat(key)
		out[i] = v
	}
	return out
}

// StatSummary is the Summary of one stat key
type StatSummary struct {
	Key string `json:"key"`
	Summary
}

// StatTable summarizes each key over the rows, in key order
func StatTable(rows []gamelog.Row, keys []string) []StatSummary {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	out := make([]StatSummary, len(keys))
	for i, k := range keys {
		out[i] = StatSummary{Key: k, Summary: Summarize(Values(rows, k))}
	}
	return out
}
