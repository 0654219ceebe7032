// Package validate drops draft records that lack the required fields, plus
// (optionally) obvious export artifacts far outside plausible order values.
package validate

import (
	"github.com/shopspring/decimal"

	"deliverylens/internal/normalize"
)

// Options configures the optional outlier bound. The zero value applies
// only the required-field rules.
type Options struct {
	// BoundEnabled turns on the abs(revenue) ceiling. Negative revenue
	// (refunds) inside the bound always survives.
	BoundEnabled  bool
	MaxAbsRevenue decimal.Decimal
}

// Records filters drafts. The rules are independent: a record failing any
// of them is dropped. Validation is idempotent: running it over an already
// valid list returns the input unchanged.
func Records(in []normalize.Record, opts Options) (kept []normalize.Record, dropped int) {
	for i := range in {
		if !keep(&in[i], opts) {
			dropped++
		}
	}
	if dropped == 0 {
		return in, 0
	}
	kept = make([]normalize.Record, 0, len(in)-dropped)
	for i := range in {
		if keep(&in[i], opts) {
			kept = append(kept, in[i])
		}
	}
	return kept, dropped
}

func keep(r *normalize.Record, opts Options) bool {
	if r.Date.IsZero() || !r.HasRevenue {
		return false
	}
	if opts.BoundEnabled && r.Revenue.Abs().GreaterThan(opts.MaxAbsRevenue) {
		return false
	}
	return true
}
