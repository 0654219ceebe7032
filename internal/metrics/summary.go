package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"deliverylens/internal/normalize"
)

// Summary is the headline marketing view of one session.
type Summary struct {
	TotalRecords int
	TotalOrders  int
	TotalRevenue decimal.Decimal
	AOV          decimal.Decimal

	CompletionRate   float64
	CancellationRate float64

	RevenueGrowthPct float64
	OrderGrowthPct   float64
}

// ComputeSummary aggregates over all records; revenue figures count
// completed orders only, rates count everything.
func ComputeSummary(records []normalize.Record, g Granularity) Summary {
	s := Summary{TotalRecords: len(records)}
	if len(records) == 0 {
		return s
	}

	completedCount, cancelledCount := 0, 0
	for i := range records {
		if records[i].IsCompleted {
			completedCount++
			s.TotalRevenue = s.TotalRevenue.Add(records[i].Revenue)
		}
		if records[i].IsCancelled {
			cancelledCount++
		}
	}
	s.TotalOrders = completedCount
	if completedCount > 0 {
		s.AOV = s.TotalRevenue.Div(decimal.NewFromInt(int64(completedCount))).Round(2)
	}
	s.CompletionRate = float64(completedCount) / float64(len(records)) * 100
	s.CancellationRate = float64(cancelledCount) / float64(len(records)) * 100

	growth := Growth(Completed(records), g)
	s.RevenueGrowthPct = growth.RevenuePct
	s.OrderGrowthPct = growth.OrdersPct
	return s
}

// PlatformPerformance is the per-platform rollup shown on the overview.
type PlatformPerformance struct {
	Platform       normalize.Platform
	Orders         int
	Revenue        decimal.Decimal
	AOV            decimal.Decimal
	FirstOrder     time.Time
	LastOrder      time.Time
	MarketSharePct float64
}

// PlatformRollups aggregates orders, revenue, AOV, activity span, and
// order-count market share per platform, in stable display order.
func PlatformRollups(records []normalize.Record) []PlatformPerformance {
	byPlatform := map[normalize.Platform]*PlatformPerformance{}
	total := 0
	for i := range records {
		r := &records[i]
		p, ok := byPlatform[r.Platform]
		if !ok {
			p = &PlatformPerformance{Platform: r.Platform}
			byPlatform[r.Platform] = p
		}
		p.Orders++
		total++
		p.Revenue = p.Revenue.Add(r.Revenue)
		if !r.Date.IsZero() {
			if p.FirstOrder.IsZero() || r.Date.Before(p.FirstOrder) {
				p.FirstOrder = r.Date
			}
			if r.Date.After(p.LastOrder) {
				p.LastOrder = r.Date
			}
		}
	}

	out := make([]PlatformPerformance, 0, len(byPlatform))
	for _, platform := range normalize.Platforms {
		p, ok := byPlatform[platform]
		if !ok {
			continue
		}
		if p.Orders > 0 {
			p.AOV = p.Revenue.Div(decimal.NewFromInt(int64(p.Orders))).Round(2)
			p.MarketSharePct = float64(p.Orders) / float64(total) * 100
		}
		out = append(out, *p)
	}
	return out
}

// StoreValue is the simplified lifetime-value estimate for one store.
type StoreValue struct {
	Store                string
	Orders               int
	TotalRevenue         decimal.Decimal
	AvgOrderValue        decimal.Decimal
	DaysActive           int
	OrdersPerMonth       float64
	EstimatedAnnualValue decimal.Decimal
}

// StoreValues estimates per-store annual value: average order value times
// monthly order frequency times twelve. A store active on a single day is
// treated as a one-day span rather than dividing by zero.
func StoreValues(records []normalize.Record) []StoreValue {
	type span struct {
		value       StoreValue
		first, last time.Time
	}
	byStore := map[string]*span{}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		key := storeKey(r)
		s, ok := byStore[key]
		if !ok {
			s = &span{value: StoreValue{Store: key}, first: r.Date, last: r.Date}
			byStore[key] = s
		}
		s.value.Orders++
		s.value.TotalRevenue = s.value.TotalRevenue.Add(r.Revenue)
		if r.Date.Before(s.first) {
			s.first = r.Date
		}
		if r.Date.After(s.last) {
			s.last = r.Date
		}
	}

	out := make([]StoreValue, 0, len(byStore))
	for _, s := range byStore {
		v := s.value
		v.DaysActive = daysBetween(s.first, s.last) + 1
		v.AvgOrderValue = v.TotalRevenue.Div(decimal.NewFromInt(int64(v.Orders))).Round(2)
		v.OrdersPerMonth = float64(v.Orders) / float64(v.DaysActive) * 30
		v.EstimatedAnnualValue = v.AvgOrderValue.
			Mul(decimal.NewFromFloat(v.OrdersPerMonth)).
			Mul(decimal.NewFromInt(12)).
			Round(2)
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Store < out[j].Store })
	return out
}

// HourBucket counts orders in one hour of day across platforms.
type HourBucket struct {
	Hour       int
	Orders     int
	ByPlatform map[normalize.Platform]int
}

// HourProfile tallies order counts for each hour of day. All 24 buckets
// are present so charting never has to fill gaps.
func HourProfile(records []normalize.Record) []HourBucket {
	out := make([]HourBucket, 24)
	for h := range out {
		out[h] = HourBucket{Hour: h, ByPlatform: map[normalize.Platform]int{}}
	}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		out[r.Hour].Orders++
		out[r.Hour].ByPlatform[r.Platform]++
	}
	return out
}

// WeekdayBucket counts orders on one weekday across platforms.
type WeekdayBucket struct {
	Day        time.Weekday
	Orders     int
	ByPlatform map[normalize.Platform]int
}

// WeekdayProfile tallies order counts per weekday, Sunday first.
func WeekdayProfile(records []normalize.Record) []WeekdayBucket {
	out := make([]WeekdayBucket, 7)
	for d := range out {
		out[d] = WeekdayBucket{Day: time.Weekday(d), ByPlatform: map[normalize.Platform]int{}}
	}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		out[int(r.DayOfWeek)].Orders++
		out[int(r.DayOfWeek)].ByPlatform[r.Platform]++
	}
	return out
}
