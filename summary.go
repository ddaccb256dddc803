package main

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
)

// TimingSummary aggregates repeated runs of one query file against one index and mode.
type TimingSummary struct {
	Preftab   int       `json:"preftab"`
	QueryMode QueryMode `json:"query_mode"`
	QueryFile string    `json:"query_file"`
	Runs      int       `json:"runs"`
	Mean      float64   `json:"mean_seconds"`
	StdDev    float64   `json:"stddev_seconds"`
	Min       float64   `json:"min_seconds"`
	Max       float64   `json:"max_seconds"`
}

var unitSeconds = map[string]float64{
	"ns": 1e-9,
	"µs": 1e-6,
	"us": 1e-6,
	"ms": 1e-3,
	"s":  1,
	"m":  60,
}

// ToSeconds converts a duration printed by the tools (Rust Debug format) to seconds.
func ToSeconds(value float64, unit string) (float64, error) {
	scale, ok := unitSeconds[unit]
	if !ok {
		return 0, fmt.Errorf("%w: time unit %q", ErrUnexpectedOutput, unit)
	}
	return value * scale, nil
}

// Summarize groups query runs by (preftab, mode, query file). Duplicate catalogue
// entries share a query file and therefore land in the same group. Runs with an
// unknown time unit are left out of the statistics.
func Summarize(report ExperimentReport) []TimingSummary {
	summaries := make([]TimingSummary, 0)
	for _, sub := range report.Results {
		for _, mode := range QueryModes() {
			order := make([]string, 0)
			samples := make(map[string][]float64)
			for _, run := range sub.QuerySA[mode] {
				seconds, err := ToSeconds(run.QueryTime, run.QueryTimeUnits)
				if err != nil {
					Logger.Warnf("skip run of %v in summary: %v", run.QueryFile, err)
					continue
				}
				key := filepath.Base(run.QueryFile)
				if _, ok := samples[key]; !ok {
					order = append(order, key)
				}
				samples[key] = append(samples[key], seconds)
			}
			for _, key := range order {
				values := samples[key]
				mean, std := stat.MeanStdDev(values, nil)
				if len(values) < 2 {
					std = 0
				}
				low, high := math.Inf(1), math.Inf(-1)
				for _, value := range values {
					low, high = math.Min(low, value), math.Max(high, value)
				}
				summaries = append(summaries, TimingSummary{
					Preftab:   sub.Preftab,
					QueryMode: mode,
					QueryFile: key,
					Runs:      len(values),
					Mean:      mean,
					StdDev:    std,
					Min:       low,
					Max:       high,
				})
			}
		}
	}
	return summaries
}
