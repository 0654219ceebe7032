// Package metrics computes the derived analytics bundle over a unified
// dataset. Every function here treats its input as read-only and returns
// fresh values; nothing mutates records, and everything is recomputed on
// demand rather than persisted.
package metrics

import (
	"time"

	"deliverylens/internal/normalize"
)

// Granularity selects the period key for period-over-period comparisons.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// DefaultChurnThresholdDays matches the original dashboard's definition of
// an inactive store.
const DefaultChurnThresholdDays = 30

// Options configures bundle computation.
type Options struct {
	ChurnThresholdDays int
	Granularity        Granularity
}

// Bundle is the full derived view handed to export and display layers.
type Bundle struct {
	Summary     Summary
	Growth      GrowthRate
	RFM         []RFMScore
	Churn       ChurnReport
	Cohorts     []CohortCell
	Platforms   []PlatformPerformance
	StoreValues []StoreValue
	Hours       []HourBucket
	Weekdays    []WeekdayBucket
}

// Compute builds the whole bundle. Individual functions remain callable in
// any combination for callers that need less.
func Compute(records []normalize.Record, opts Options) *Bundle {
	if opts.ChurnThresholdDays <= 0 {
		opts.ChurnThresholdDays = DefaultChurnThresholdDays
	}
	if opts.Granularity == "" {
		opts.Granularity = Monthly
	}
	completed := Completed(records)
	return &Bundle{
		Summary:     ComputeSummary(records, opts.Granularity),
		Growth:      Growth(completed, opts.Granularity),
		RFM:         RFM(completed),
		Churn:       Churn(completed, opts.ChurnThresholdDays),
		Cohorts:     Cohort(completed),
		Platforms:   PlatformRollups(completed),
		StoreValues: StoreValues(completed),
		Hours:       HourProfile(completed),
		Weekdays:    WeekdayProfile(completed),
	}
}

// Completed returns the settled subset without copying record contents.
func Completed(records []normalize.Record) []normalize.Record {
	out := make([]normalize.Record, 0, len(records))
	for i := range records {
		if records[i].IsCompleted {
			out = append(out, records[i])
		}
	}
	return out
}

func periodKey(t time.Time, g Granularity) string {
	if g == Daily {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01")
}

// storeKey is the grouping key the analytics use as a customer proxy; true
// customer identity is not present in these exports.
func storeKey(r *normalize.Record) string {
	if r.StoreName != "" {
		return r.StoreName
	}
	if r.StoreID != "" {
		return r.StoreID
	}
	return "(unknown)"
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func maxDate(records []normalize.Record) time.Time {
	var max time.Time
	for i := range records {
		if records[i].Date.After(max) {
			max = records[i].Date
		}
	}
	return max
}
