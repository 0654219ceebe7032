// Package pipeline runs the full reconciliation session: per-platform
// normalization, validation, and unification into one ordered dataset. One
// upload-and-recompute cycle runs to completion before anything reads the
// result; there is no concurrency here by design.
package pipeline

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deliverylens/internal/normalize"
	"deliverylens/internal/rawtable"
	"deliverylens/internal/schema"
	"deliverylens/internal/validate"
)

// Input is one platform's raw upload.
type Input struct {
	Platform normalize.Platform
	Table    *rawtable.Table
}

// Config carries session-wide settings.
type Config struct {
	ReferenceMonth time.Time
	Validation     validate.Options
	Log            *logrus.Logger
}

// PlatformReport is the per-platform processing diagnostic surfaced to
// callers (counts, repairs, missing fields).
type PlatformReport struct {
	Platform   normalize.Platform
	RawRows    int
	Normalized int
	Dropped    int
	Kept       int

	MissingRequired []schema.Field
	MissingOptional []schema.Field

	HeaderPromoted       bool
	DateRepaired         bool
	DateParseFailures    int
	RevenueParseFailures int
}

// Failed reports whether the platform produced zero records because a
// required column could not be resolved.
func (r PlatformReport) Failed() bool { return len(r.MissingRequired) > 0 }

// Result is one session's unified dataset plus its diagnostics. Records are
// immutable once returned; a new upload means a fresh Run, never mutation.
type Result struct {
	RunID   string
	Records []normalize.Record
	Reports []PlatformReport
}

// TotalKept counts surviving records across all platforms.
func (r *Result) TotalKept() int { return len(r.Records) }

// CountByPlatform tallies surviving records per platform.
func (r *Result) CountByPlatform() map[normalize.Platform]int {
	out := make(map[normalize.Platform]int, len(normalize.Platforms))
	for i := range r.Records {
		out[r.Records[i].Platform]++
	}
	return out
}

// Run processes every input in order and unifies the survivors. The unifier
// is plain ordered concatenation: order IDs are not globally unique across
// platforms, so cross-platform deduplication would be incorrect. A platform
// that fails only fails itself; the session always returns a result.
func Run(inputs []Input, cfg Config) *Result {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	res := &Result{RunID: uuid.NewString()}
	ncfg := normalize.Config{ReferenceMonth: cfg.ReferenceMonth, Log: log}

	for _, in := range inputs {
		spec, ok := normalize.SpecFor(in.Platform)
		if !ok {
			log.WithField("platform", in.Platform).Error("unknown platform, skipping input")
			continue
		}

		nres := spec.Normalize(in.Table, ncfg)
		kept, dropped := validate.Records(nres.Records, cfg.Validation)

		res.Reports = append(res.Reports, PlatformReport{
			Platform:             in.Platform,
			RawRows:              nres.RawRows,
			Normalized:           len(nres.Records),
			Dropped:              dropped,
			Kept:                 len(kept),
			MissingRequired:      nres.MissingRequired,
			MissingOptional:      nres.MissingOptional,
			HeaderPromoted:       nres.HeaderPromoted,
			DateRepaired:         nres.DateRepaired,
			DateParseFailures:    nres.DateParseFailures,
			RevenueParseFailures: nres.RevenueParseFailures,
		})
		res.Records = append(res.Records, kept...)

		log.WithFields(logrus.Fields{
			"platform": in.Platform,
			"raw":      nres.RawRows,
			"kept":     len(kept),
			"dropped":  dropped,
		}).Info("platform processed")
	}
	return res
}
