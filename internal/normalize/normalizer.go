// Package normalize turns one platform's raw export into canonical order
// records. There is exactly one normalizer; the three platforms differ only
// in data (field candidates, status vocabulary, header markers), not in
// code paths.
package normalize

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"deliverylens/internal/coerce"
	"deliverylens/internal/rawtable"
	"deliverylens/internal/repair"
	"deliverylens/internal/schema"
)

// Spec is one platform's normalization configuration.
type Spec struct {
	Platform Platform
	// IDPrefix seeds synthesized order IDs when the export carries none.
	// Synthesized IDs are per-upload sequences, never cross-platform keys.
	IDPrefix string
	// HeaderMarkers identify a prose line sitting where the header belongs.
	HeaderMarkers []string
	Fields        map[schema.Field]schema.FieldSpec
	Status        coerce.StatusVocab
}

// Config carries the cross-platform normalization settings.
type Config struct {
	// ReferenceMonth anchors synthetic calendars for corrupted date columns.
	ReferenceMonth time.Time
	Log            *logrus.Logger
}

// Result is the structured outcome for one platform table. Malformed data
// never surfaces as an error: a missing required field yields zero records
// plus the field name, so callers can render "0 valid records, reason:
// revenue column not found".
type Result struct {
	Platform Platform
	Records  []Record

	RawRows        int
	HeaderPromoted bool

	// MissingRequired names required semantic fields with no resolvable
	// column; non-empty means Records is empty.
	MissingRequired []schema.Field
	// MissingOptional names optional fields that defaulted.
	MissingOptional []schema.Field

	DateRepaired         bool
	DateParseFailures    int
	RevenueParseFailures int
}

// requiredFields must resolve for a table to produce any records.
var requiredFields = []schema.Field{schema.FieldDate, schema.FieldRevenue}

var optionalFields = []schema.Field{
	schema.FieldSubtotal,
	schema.FieldTax,
	schema.FieldTips,
	schema.FieldCommission,
	schema.FieldMarketingFee,
	schema.FieldStatus,
	schema.FieldStoreName,
	schema.FieldStoreID,
	schema.FieldOrderID,
}

// Normalize maps a raw table into draft canonical records. It consumes the
// table: when a descriptive header line is detected the table is re-headered
// in place, so callers must not reuse t afterwards.
func (s Spec) Normalize(t *rawtable.Table, cfg Config) Result {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	plog := log.WithField("platform", s.Platform)

	res := Result{Platform: s.Platform}
	if t == nil {
		return res
	}

	if len(s.HeaderMarkers) > 0 && t.AnyCellContains(s.HeaderMarkers) {
		t.PromoteHeader()
		res.HeaderPromoted = true
		plog.Warn("descriptive header line detected, promoted next row to header")
	}
	res.RawRows = t.Len()

	// A required field with an empty spec is a configuration bug. It fails
	// this platform, never the session.
	if err := schema.Validate(s.Fields, requiredFields...); err != nil {
		plog.WithError(err).Error("field spec misconfigured")
		res.MissingRequired = append(res.MissingRequired, missingFromSpec(s.Fields)...)
		return res
	}

	cols := map[schema.Field]string{}
	for _, f := range requiredFields {
		col, ok := s.Fields[f].Resolve(t.Columns)
		if !ok {
			res.MissingRequired = append(res.MissingRequired, f)
			continue
		}
		cols[f] = col
	}
	if len(res.MissingRequired) > 0 {
		for _, f := range res.MissingRequired {
			plog.WithField("field", string(f)).Error("required column not found")
		}
		return res
	}
	for _, f := range optionalFields {
		spec, ok := s.Fields[f]
		if !ok {
			res.MissingOptional = append(res.MissingOptional, f)
			continue
		}
		col, ok := spec.Resolve(t.Columns)
		if !ok {
			res.MissingOptional = append(res.MissingOptional, f)
			continue
		}
		cols[f] = col
	}
	if len(res.MissingOptional) > 0 {
		plog.WithField("fields", res.MissingOptional).Debug("optional columns defaulted")
	}
	if res.RawRows == 0 {
		return res
	}

	if cfg.ReferenceMonth.IsZero() {
		cfg.ReferenceMonth = repair.DefaultReferenceMonth
	}
	dates, repaired, parseFailures := s.resolveDates(t, cols[schema.FieldDate], cfg)
	res.DateRepaired = repaired
	res.DateParseFailures = parseFailures

	res.Records = make([]Record, 0, res.RawRows)
	seq := 0
	for i, row := range t.Rows {
		rec := Record{
			Platform:     s.Platform,
			DateRepaired: repaired,
		}
		rec.SetDate(dates[i])

		rev, ok := coerce.Amount(row[cols[schema.FieldRevenue]])
		if ok {
			rec.Revenue = rev
			rec.HasRevenue = true
		} else {
			res.RevenueParseFailures++
		}

		rec.Subtotal = amountField(row, cols, schema.FieldSubtotal)
		rec.Tax = amountField(row, cols, schema.FieldTax)
		rec.Tips = amountField(row, cols, schema.FieldTips)
		rec.Commission = amountField(row, cols, schema.FieldCommission)
		rec.MarketingFee = amountField(row, cols, schema.FieldMarketingFee)

		if statusCol, ok := cols[schema.FieldStatus]; ok {
			rec.IsCompleted, rec.IsCancelled = coerce.Status(row[statusCol], s.Status)
		} else {
			// No status column: settlement exports only contain settled
			// orders, so assume completed.
			rec.IsCompleted = true
		}

		rawStore := ""
		if c, ok := cols[schema.FieldStoreName]; ok {
			rawStore = row[c]
		}
		rec.StoreName = CanonicalStoreName(rawStore)
		if c, ok := cols[schema.FieldStoreID]; ok && row[c] != "" {
			rec.StoreID = row[c]
		} else {
			rec.StoreID = rawStore
		}

		if c, ok := cols[schema.FieldOrderID]; ok && row[c] != "" {
			rec.OrderID = row[c]
		} else {
			seq++
			rec.OrderID = fmt.Sprintf("%s-%06d", s.IDPrefix, seq)
		}

		res.Records = append(res.Records, rec)
	}

	if repaired {
		plog.WithFields(logrus.Fields{
			"rows":            res.RawRows,
			"reference_month": cfg.ReferenceMonth.Format("2006-01"),
		}).Warn("date column corrupted, substituted synthetic calendar")
	}
	if res.DateParseFailures > 0 {
		plog.WithField("cells", res.DateParseFailures).Warn("date cells failed to parse")
	}
	if res.RevenueParseFailures > 0 {
		plog.WithField("cells", res.RevenueParseFailures).Warn("revenue cells failed to parse")
	}
	return res
}

// resolveDates coerces the date column, falling back to a synthetic
// calendar when the column is corrupted or entirely unparseable.
func (s Spec) resolveDates(t *rawtable.Table, dateCol string, cfg Config) (dates []time.Time, repaired bool, parseFailures int) {
	cells := t.Column(dateCol)
	if repair.ColumnCorrupted(cells) {
		return repair.Calendar(len(cells), cfg.ReferenceMonth), true, 0
	}
	col := coerce.Dates(cells)
	if col.TotalFailure() {
		return repair.Calendar(len(cells), cfg.ReferenceMonth), true, 0
	}
	return col.Times, false, col.Failed()
}

func amountField(row map[string]string, cols map[schema.Field]string, f schema.Field) decimal.Decimal {
	c, ok := cols[f]
	if !ok {
		return decimal.Zero
	}
	return coerce.AmountOr(row[c], decimal.Zero)
}

// missingFromSpec lists required fields whose specs cannot resolve.
func missingFromSpec(fields map[schema.Field]schema.FieldSpec) []schema.Field {
	var out []schema.Field
	for _, f := range requiredFields {
		spec, ok := fields[f]
		if !ok || spec.Empty() {
			out = append(out, f)
		}
	}
	return out
}
