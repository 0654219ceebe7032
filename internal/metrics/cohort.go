package metrics

import (
	"sort"
	"time"

	"deliverylens/internal/normalize"
)

// CohortCell reports how many of a cohort's stores were still active N
// periods after their first order. Offset 0 is the cohort size.
type CohortCell struct {
	Cohort       string
	Platform     normalize.Platform
	PeriodOffset int
	ActiveStores int
}

// Cohort groups stores by their first-order month and platform, then
// counts distinct active stores over each subsequent month.
func Cohort(records []normalize.Record) []CohortCell {
	type member struct {
		platform normalize.Platform
		first    string
		months   map[string]bool
	}
	byStore := map[string]*member{}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		key := storeKey(r) + "|" + string(r.Platform)
		m, ok := byStore[key]
		if !ok {
			m = &member{platform: r.Platform, first: r.Month, months: map[string]bool{}}
			byStore[key] = m
		}
		if r.Month < m.first {
			m.first = r.Month
		}
		m.months[r.Month] = true
	}
	if len(byStore) == 0 {
		return nil
	}

	// active[cohort|platform|offset] = distinct store count
	type cohortKey struct {
		cohort   string
		platform normalize.Platform
		offset   int
	}
	counts := map[cohortKey]int{}
	maxOffset := map[string]int{}
	for _, m := range byStore {
		for month := range m.months {
			off := monthOffset(m.first, month)
			if off < 0 {
				continue
			}
			ck := cohortKey{cohort: m.first, platform: m.platform, offset: off}
			counts[ck]++
			mk := m.first + "|" + string(m.platform)
			if off > maxOffset[mk] {
				maxOffset[mk] = off
			}
		}
	}

	out := make([]CohortCell, 0, len(counts))
	for ck, n := range counts {
		out = append(out, CohortCell{
			Cohort:       ck.cohort,
			Platform:     ck.platform,
			PeriodOffset: ck.offset,
			ActiveStores: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Cohort != b.Cohort {
			return a.Cohort < b.Cohort
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.PeriodOffset < b.PeriodOffset
	})
	return out
}

// monthOffset counts whole months from one "2006-01" key to another.
func monthOffset(from, to string) int {
	ft, err1 := time.Parse("2006-01", from)
	tt, err2 := time.Parse("2006-01", to)
	if err1 != nil || err2 != nil {
		return -1
	}
	return (tt.Year()-ft.Year())*12 + int(tt.Month()) - int(ft.Month())
}
