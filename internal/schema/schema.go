// Package schema maps the variable column names of platform exports onto
// fixed semantic fields. Resolution is data-driven: each (platform, field)
// pair declares an ordered candidate list instead of scattering name
// heuristics through the normalizers.
package schema

import (
	"fmt"
	"strings"
)

// Field is a semantic column the canonical record needs.
type Field string

const (
	FieldDate         Field = "date"
	FieldRevenue      Field = "revenue"
	FieldSubtotal     Field = "subtotal"
	FieldTax          Field = "tax"
	FieldTips         Field = "tips"
	FieldCommission   Field = "commission"
	FieldMarketingFee Field = "marketing_fee"
	FieldStatus       Field = "status"
	FieldStoreName    Field = "store_name"
	FieldStoreID      Field = "store_id"
	FieldOrderID      Field = "order_id"
)

// Candidate is one column-name pattern. Exact matching is the default;
// Substring candidates match any header containing the pattern. Matching is
// case-sensitive: the sources mix Chinese and English headers and their
// casing is stable per export vintage.
type Candidate struct {
	Pattern   string
	Substring bool
}

// Exact builds an exact-match candidate.
func Exact(p string) Candidate { return Candidate{Pattern: p} }

// Contains builds a substring-match candidate.
func Contains(p string) Candidate { return Candidate{Pattern: p, Substring: true} }

// NoPosition marks a FieldSpec without a positional fallback.
const NoPosition = -1

// FieldSpec is the static lookup configuration for one semantic field on
// one platform.
type FieldSpec struct {
	Candidates []Candidate
	// Position is a last-resort column index, NoPosition to disable.
	Position int
}

// Spec builds a FieldSpec from candidates with no positional fallback.
func Spec(cands ...Candidate) FieldSpec {
	return FieldSpec{Candidates: cands, Position: NoPosition}
}

// Empty reports whether the spec can never resolve anything. A required
// field with an empty spec is a configuration bug, not a data problem.
func (s FieldSpec) Empty() bool {
	return len(s.Candidates) == 0 && s.Position == NoPosition
}

// Resolve returns the column carrying this field, scanning candidates in
// priority order. Within one candidate, the first matching column in table
// order wins; ambiguity is resolved arbitrarily but deterministically.
func (s FieldSpec) Resolve(columns []string) (string, bool) {
	for _, cand := range s.Candidates {
		if cand.Pattern == "" {
			continue
		}
		for _, col := range columns {
			if cand.Substring {
				if strings.Contains(col, cand.Pattern) {
					return col, true
				}
			} else if col == cand.Pattern {
				return col, true
			}
		}
	}
	if s.Position != NoPosition && s.Position >= 0 && s.Position < len(columns) {
		return columns[s.Position], true
	}
	return "", false
}

// Validate rejects specs that declare a required field with no way to
// resolve or derive it.
func Validate(fields map[Field]FieldSpec, required ...Field) error {
	for _, f := range required {
		spec, ok := fields[f]
		if !ok || spec.Empty() {
			return fmt.Errorf("field spec for required field %q has no candidates and no positional fallback", f)
		}
	}
	return nil
}
