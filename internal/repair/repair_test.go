package repair

import (
	"testing"
	"time"
)

func TestCellCorrupted(t *testing.T) {
	corrupted := []string{"####", "########", "1.74556E+12", "1.7e+09"}
	for _, s := range corrupted {
		if !CellCorrupted(s) {
			t.Fatalf("CellCorrupted(%q) = false", s)
		}
	}
	clean := []string{"", "#", "2025-06-01", "#1 store", "10.50"}
	for _, s := range clean {
		if CellCorrupted(s) {
			t.Fatalf("CellCorrupted(%q) = true", s)
		}
	}
}

func TestColumnCorrupted(t *testing.T) {
	if !ColumnCorrupted([]string{"2025-06-01", "####", "2025-06-02"}) {
		t.Fatal("column with one corrupted cell not flagged")
	}
	if ColumnCorrupted([]string{"2025-06-01", "2025-06-02"}) {
		t.Fatal("clean column flagged")
	}
}

func TestCalendarCyclesMonth(t *testing.T) {
	ref := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	dates := Calendar(65, ref)
	if len(dates) != 65 {
		t.Fatalf("len = %d, want 65", len(dates))
	}

	first := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !dates[0].Equal(first) {
		t.Fatalf("dates[0] = %v, want first of month", dates[0])
	}
	// June has 30 days, so row 30 wraps back to June 1.
	if !dates[30].Equal(first) {
		t.Fatalf("dates[30] = %v, want wrap to first of month", dates[30])
	}
	if !dates[29].Equal(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("dates[29] = %v, want June 30", dates[29])
	}
	for i, d := range dates {
		if d.IsZero() {
			t.Fatalf("dates[%d] is zero", i)
		}
		if d.Month() != time.June || d.Year() != 2025 {
			t.Fatalf("dates[%d] = %v escapes the reference month", i, d)
		}
	}
}

func TestCalendarDeterministic(t *testing.T) {
	a := Calendar(10, DefaultReferenceMonth)
	b := Calendar(10, DefaultReferenceMonth)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("row %d differs between runs", i)
		}
	}
}

func TestCalendarEmpty(t *testing.T) {
	if got := Calendar(0, DefaultReferenceMonth); got != nil {
		t.Fatalf("Calendar(0) = %v, want nil", got)
	}
}
