package normalize

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform tags every record with its source export.
type Platform string

const (
	PlatformDoorDash Platform = "DoorDash"
	PlatformUber     Platform = "Uber"
	PlatformGrubhub  Platform = "Grubhub"
)

// Platforms lists all sources in stable display order.
var Platforms = []Platform{PlatformDoorDash, PlatformUber, PlatformGrubhub}

// Record is the canonical, platform-agnostic order row. Drafts coming out
// of normalization may still carry a zero Date or HasRevenue=false; the
// validator removes those, so post-validation records always have both.
type Record struct {
	OrderID  string
	Platform Platform

	// Date may be synthetic when the source column was corrupted; that is
	// flagged via DateRepaired, never silently.
	Date time.Time

	// Revenue keeps each platform's native "net" semantics. HasRevenue is
	// false when the source cell was empty or unparseable.
	Revenue    decimal.Decimal
	HasRevenue bool

	// Additive components, zero when the export lacks the column. They are
	// not guaranteed to reconcile exactly to Revenue.
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Tips         decimal.Decimal
	Commission   decimal.Decimal
	MarketingFee decimal.Decimal

	IsCompleted bool
	IsCancelled bool

	StoreName string
	StoreID   string

	// Derived from Date only; SetDate keeps them in sync.
	Hour      int
	DayOfWeek time.Weekday
	Month     string

	DateRepaired bool
}

// SetDate assigns the date and recomputes every derived calendar field.
// Derived fields are never stored independently of Date.
func (r *Record) SetDate(t time.Time) {
	r.Date = t
	if t.IsZero() {
		r.Hour = 0
		r.DayOfWeek = time.Sunday
		r.Month = ""
		return
	}
	r.Hour = t.Hour()
	r.DayOfWeek = t.Weekday()
	r.Month = t.Format("2006-01")
}

// Usable reports whether the record survives required-field validation.
func (r *Record) Usable() bool {
	return !r.Date.IsZero() && r.HasRevenue
}
