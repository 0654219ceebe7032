// Package coerce converts raw export cells into typed values. Nothing here
// returns an error for bad data: a cell that cannot be parsed becomes a
// null (dates) or the caller's default (amounts, flags), and column-level
// results carry enough counts for callers to tell "some cells failed" from
// "the whole column is unusable".
package coerce

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts covers the formats seen across the three platforms' export
// vintages: ISO, slashed, US-ordered, and CJK date strings.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 15:04",
	"2006年1月2日 15:04",
	"2006年1月2日",
}

// Date parses one cell. The zero time plus false means the cell is null.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateColumn is the column-level date coercion result. Times[i] is the zero
// time wherever OK[i] is false.
type DateColumn struct {
	Times    []time.Time
	OK       []bool
	NonEmpty int
	Parsed   int
}

// TotalFailure reports that the column held values but none parsed. This is
// the signal that feeds corruption repair; it is distinct from partial
// failure, which row validation handles.
func (c DateColumn) TotalFailure() bool {
	return c.NonEmpty > 0 && c.Parsed == 0
}

// Failed counts non-empty cells that did not parse.
func (c DateColumn) Failed() int { return c.NonEmpty - c.Parsed }

// Dates coerces a whole column.
func Dates(cells []string) DateColumn {
	col := DateColumn{
		Times: make([]time.Time, len(cells)),
		OK:    make([]bool, len(cells)),
	}
	for i, s := range cells {
		if strings.TrimSpace(s) == "" {
			continue
		}
		col.NonEmpty++
		if t, ok := Date(s); ok {
			col.Times[i] = t
			col.OK[i] = true
			col.Parsed++
		}
	}
	return col
}

// amountReplacer strips currency symbols, thousands separators, and spacing
// before decimal parsing. Full-width variants appear in the Chinese-locale
// exports.
var amountReplacer = strings.NewReplacer(
	",", "",
	"，", "",
	"$", "",
	"¥", "",
	"￥", "",
	"US$", "",
	" ", "",
	" ", "",
)

// Amount parses one monetary cell, returning def and false when the cell is
// empty or non-numeric.
func Amount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = amountReplacer.Replace(s)
	// Accounting-style negatives: (12.50) means -12.50.
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = "-" + s[1:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountOr parses one monetary cell with an explicit default.
func AmountOr(s string, def decimal.Decimal) decimal.Decimal {
	if d, ok := Amount(s); ok {
		return d
	}
	return def
}

// StatusVocab is the per-platform whitelist of status words. Matching is
// case-insensitive substring.
type StatusVocab struct {
	Completed []string
	Cancelled []string
}

// Status classifies a status cell. Cancelled wins over completed when both
// vocabularies match; a cell matching neither counts as completed, since
// these are merchant settlement exports that rarely include failed orders.
func Status(s string, vocab StatusVocab) (completed, cancelled bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, w := range vocab.Cancelled {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return false, true
		}
	}
	for _, w := range vocab.Completed {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true, false
		}
	}
	return true, false
}
