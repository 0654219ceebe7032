package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCandidatePriority(t *testing.T) {
	spec := Spec(Exact("收入总额"), Exact("销售额（含税）"))
	cols := []string{"销售额（含税）", "收入总额"}

	col, ok := spec.Resolve(cols)
	assert.True(t, ok)
	assert.Equal(t, "收入总额", col, "earlier candidate wins over column order")
}

func TestResolveSubstring(t *testing.T) {
	spec := Spec(Contains("小费"))
	col, ok := spec.Resolve([]string{"员工小费（税后）"})
	assert.True(t, ok)
	assert.Equal(t, "员工小费（税后）", col)
}

func TestResolveFirstColumnWinsWithinCandidate(t *testing.T) {
	spec := Spec(Contains("date"))
	col, ok := spec.Resolve([]string{"transaction_date", "settlement_date"})
	assert.True(t, ok)
	assert.Equal(t, "transaction_date", col)
}

func TestResolvePositionalFallback(t *testing.T) {
	spec := FieldSpec{Candidates: []Candidate{Exact("transaction_date")}, Position: 0}

	col, ok := spec.Resolve([]string{"txn_when", "amount"})
	assert.True(t, ok)
	assert.Equal(t, "txn_when", col, "positional fallback applies when no candidate matches")

	col, ok = spec.Resolve([]string{"amount", "transaction_date"})
	assert.True(t, ok)
	assert.Equal(t, "transaction_date", col, "candidate match beats position")
}

func TestResolveNoMatch(t *testing.T) {
	spec := Spec(Exact("净总计"))
	_, ok := spec.Resolve([]string{"subtotal", "tax"})
	assert.False(t, ok)
}

func TestValidateRejectsEmptyRequiredSpec(t *testing.T) {
	fields := map[Field]FieldSpec{
		FieldDate: Spec(Exact("date")),
	}
	assert.Error(t, Validate(fields, FieldDate, FieldRevenue))
	assert.NoError(t, Validate(fields, FieldDate))
}
