package metrics

import (
	"sort"

	"deliverylens/internal/normalize"
)

// StoreChurn is one store's inactivity classification.
type StoreChurn struct {
	Store              string
	Platform           normalize.Platform
	DaysSinceLastOrder int
	Churned            bool
}

// ChurnReport classifies every store against the inactivity threshold and
// aggregates rates overall and per platform.
type ChurnReport struct {
	ThresholdDays int
	Stores        []StoreChurn
	OverallRate   float64
	PlatformRates map[normalize.Platform]float64
}

// Churn classifies stores whose last order is more than thresholdDays
// before the dataset's most recent date. Each store is attributed to the
// platform of its first record, matching how the dashboard grouped them.
func Churn(records []normalize.Record, thresholdDays int) ChurnReport {
	rep := ChurnReport{ThresholdDays: thresholdDays, PlatformRates: map[normalize.Platform]float64{}}
	if len(records) == 0 {
		return rep
	}
	latest := maxDate(records)

	type state struct {
		platform normalize.Platform
		days     int
	}
	byStore := map[string]*state{}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		key := storeKey(r)
		d := daysBetween(r.Date, latest)
		s, ok := byStore[key]
		if !ok {
			byStore[key] = &state{platform: r.Platform, days: d}
			continue
		}
		if d < s.days {
			s.days = d
		}
	}

	churnedTotal := 0
	churnedByPlatform := map[normalize.Platform]int{}
	totalByPlatform := map[normalize.Platform]int{}
	for store, s := range byStore {
		churned := s.days > thresholdDays
		rep.Stores = append(rep.Stores, StoreChurn{
			Store:              store,
			Platform:           s.platform,
			DaysSinceLastOrder: s.days,
			Churned:            churned,
		})
		totalByPlatform[s.platform]++
		if churned {
			churnedTotal++
			churnedByPlatform[s.platform]++
		}
	}
	sort.Slice(rep.Stores, func(i, j int) bool { return rep.Stores[i].Store < rep.Stores[j].Store })

	if len(byStore) > 0 {
		rep.OverallRate = float64(churnedTotal) / float64(len(byStore)) * 100
	}
	for p, total := range totalByPlatform {
		rep.PlatformRates[p] = float64(churnedByPlatform[p]) / float64(total) * 100
	}
	return rep
}
