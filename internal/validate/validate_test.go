package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"deliverylens/internal/normalize"
)

func record(day int, revenue string) normalize.Record {
	r := normalize.Record{HasRevenue: true, IsCompleted: true}
	r.Revenue = decimal.RequireFromString(revenue)
	r.SetDate(time.Date(2025, time.June, day, 12, 0, 0, 0, time.UTC))
	return r
}

func TestRecordsDropsNulls(t *testing.T) {
	noDate := record(1, "10")
	noDate.SetDate(time.Time{})
	noRevenue := record(2, "0")
	noRevenue.HasRevenue = false

	in := []normalize.Record{record(1, "10"), noDate, noRevenue, record(3, "20")}
	kept, dropped := Records(in, Options{})

	assert.Equal(t, 2, dropped)
	assert.Len(t, kept, 2)
	assert.Equal(t, "10", kept[0].Revenue.String())
	assert.Equal(t, "20", kept[1].Revenue.String())
}

func TestRecordsKeepsRefunds(t *testing.T) {
	in := []normalize.Record{record(1, "-12.50")}
	kept, dropped := Records(in, Options{})
	assert.Zero(t, dropped)
	assert.Len(t, kept, 1, "negative revenue is a refund, not invalid data")
}

func TestRecordsRevenueCeiling(t *testing.T) {
	opts := Options{BoundEnabled: true, MaxAbsRevenue: decimal.NewFromInt(100)}
	in := []normalize.Record{
		record(1, "99.99"),
		record(2, "100"),
		record(3, "100.01"),
		record(4, "-250"),
	}
	kept, dropped := Records(in, opts)
	assert.Equal(t, 2, dropped)
	assert.Len(t, kept, 2, "bound applies to abs(revenue), boundary value survives")
}

func TestRecordsIdempotent(t *testing.T) {
	in := []normalize.Record{record(1, "10"), record(2, "20")}
	kept, dropped := Records(in, Options{})
	assert.Zero(t, dropped)
	// No drops means the input slice comes back as-is, no copy.
	assert.Equal(t, &in[0], &kept[0])

	again, dropped := Records(kept, Options{})
	assert.Zero(t, dropped)
	assert.Equal(t, kept, again)
}
