package metrics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"deliverylens/internal/normalize"
)

// SegmentInsufficientData is returned for every key when the dataset holds
// too few grouping keys to form meaningful quantile buckets.
const SegmentInsufficientData = "Insufficient Data"

// minRFMKeys is the smallest number of distinct grouping keys for which
// quintile scoring is attempted.
const minRFMKeys = 3

// RFMScore is one grouping key's recency/frequency/monetary profile.
// Stores stand in for customers; the exports carry no customer identity.
type RFMScore struct {
	Store       string
	RecencyDays int
	Frequency   int
	Monetary    decimal.Decimal

	R, F, M int
	Code    string
	Segment string
}

// rfmSegments is the fixed code-to-segment lookup, evaluated in order on
// the R and F scores.
var rfmSegments = []struct {
	minR, minF int
	name       string
}{
	{4, 4, "Champions"},
	{4, 2, "Loyal"},
	{4, 0, "New"},
	{3, 3, "Potential Loyalist"},
	{3, 0, "Promising"},
	{0, 4, "At Risk"},
	{0, 2, "About to Sleep"},
	{0, 0, "Hibernating"},
}

func segmentFor(r, f int) string {
	for _, s := range rfmSegments {
		if r >= s.minR && f >= s.minF {
			return s.name
		}
	}
	return "Hibernating"
}

// RFM scores every store. Recency counts days since the store's last order
// relative to the dataset's most recent date; frequency is the order count;
// monetary is the revenue sum. Scores are quintiles (1–5, recency
// inverted), concatenated into a three-digit code. With fewer than three
// stores, every entry carries the insufficient-data segment instead of a
// quantile error.
func RFM(records []normalize.Record) []RFMScore {
	if len(records) == 0 {
		return nil
	}
	latest := maxDate(records)

	byStore := map[string]*RFMScore{}
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() {
			continue
		}
		key := storeKey(r)
		s, ok := byStore[key]
		if !ok {
			s = &RFMScore{Store: key, RecencyDays: daysBetween(r.Date, latest)}
			byStore[key] = s
		}
		if d := daysBetween(r.Date, latest); d < s.RecencyDays {
			s.RecencyDays = d
		}
		s.Frequency++
		s.Monetary = s.Monetary.Add(r.Revenue)
	}

	out := make([]RFMScore, 0, len(byStore))
	for _, s := range byStore {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Store < out[j].Store })

	if len(out) < minRFMKeys {
		for i := range out {
			out[i].Segment = SegmentInsufficientData
		}
		return out
	}

	recency := make([]float64, len(out))
	frequency := make([]float64, len(out))
	monetary := make([]float64, len(out))
	for i := range out {
		recency[i] = float64(out[i].RecencyDays)
		frequency[i] = float64(out[i].Frequency)
		monetary[i], _ = out[i].Monetary.Float64()
	}

	rScores := quintiles(recency)
	fScores := quintiles(frequency)
	mScores := quintiles(monetary)
	for i := range out {
		// Low recency is good, so the bucket inverts.
		out[i].R = 6 - rScores[i]
		out[i].F = fScores[i]
		out[i].M = mScores[i]
		out[i].Code = strconv.Itoa(out[i].R) + strconv.Itoa(out[i].F) + strconv.Itoa(out[i].M)
		out[i].Segment = segmentFor(out[i].R, out[i].F)
	}
	return out
}

// quintiles assigns rank-based scores 1..5, ties broken by input position
// so scoring stays deterministic.
func quintiles(vals []float64) []int {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })

	scores := make([]int, n)
	for pos, i := range idx {
		s := 1 + pos*5/n
		if s > 5 {
			s = 5
		}
		scores[i] = s
	}
	return scores
}
