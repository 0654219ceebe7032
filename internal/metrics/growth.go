package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"deliverylens/internal/normalize"
)

// GrowthRate is the percent change between the two most recent periods.
type GrowthRate struct {
	RevenuePct float64
	OrdersPct  float64
}

// Growth compares the two most recent periods of revenue and order count.
// A dataset spanning fewer than two periods yields zero growth, not an
// error.
func Growth(records []normalize.Record, g Granularity) GrowthRate {
	type bucket struct {
		revenue decimal.Decimal
		orders  int
	}
	byPeriod := map[string]*bucket{}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		k := periodKey(r.Date, g)
		b, ok := byPeriod[k]
		if !ok {
			b = &bucket{}
			byPeriod[k] = b
		}
		b.revenue = b.revenue.Add(r.Revenue)
		b.orders++
	}
	if len(byPeriod) < 2 {
		return GrowthRate{}
	}

	keys := make([]string, 0, len(byPeriod))
	for k := range byPeriod {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cur := byPeriod[keys[len(keys)-1]]
	prev := byPeriod[keys[len(keys)-2]]
	return GrowthRate{
		RevenuePct: pctChange(prev.revenue, cur.revenue),
		OrdersPct:  pctChange(decimal.NewFromInt(int64(prev.orders)), decimal.NewFromInt(int64(cur.orders))),
	}
}

func pctChange(prev, cur decimal.Decimal) float64 {
	if prev.IsZero() {
		return 0
	}
	pct, _ := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
