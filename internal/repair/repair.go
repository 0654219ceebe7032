// Package repair substitutes a deterministic synthetic calendar for date
// columns that are corrupted beyond parsing, so day-of-week and seasonality
// aggregates stay usable. Substitution is always flagged to the caller;
// fabricating dates silently is never acceptable.
package repair

import (
	"strings"
	"time"
)

// DefaultReferenceMonth anchors synthetic calendars when no configuration
// overrides it. A fixed month keeps repaired output reproducible across
// runs; see REPAIR_REFERENCE_MONTH for the override.
var DefaultReferenceMonth = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// ColumnCorrupted reports whether a raw date column shows the known
// corruption signatures: cells reduced to a run of '#' (spreadsheet
// column-width overflow baked into the export) or scientific-notation
// leakage such as "1.74556E+12".
func ColumnCorrupted(cells []string) bool {
	for _, s := range cells {
		if CellCorrupted(s) {
			return true
		}
	}
	return false
}

// CellCorrupted checks one cell for the placeholder patterns.
func CellCorrupted(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.Count(s, "#") == len(s) {
		return true
	}
	return strings.Contains(s, "E+") || strings.Contains(s, "e+")
}

// Calendar synthesizes rowCount timestamps inside the reference month,
// cycling through that month's days when rowCount exceeds them. Input row
// order is the ordering key, so row i always maps to the same date.
func Calendar(rowCount int, referenceMonth time.Time) []time.Time {
	if rowCount <= 0 {
		return nil
	}
	first := time.Date(referenceMonth.Year(), referenceMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := daysInMonth(first)

	out := make([]time.Time, rowCount)
	for i := 0; i < rowCount; i++ {
		out[i] = first.AddDate(0, 0, i%days)
	}
	return out
}

func daysInMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
