package model

import (
	"time"

	"github.com/google/uuid"
)

// Expiry status values, derived at read time — never stored.
const (
	StatusExpired = "expired"
	StatusSoon    = "soon"
	StatusNormal  = "normal"
)

// SoonWindowDays is the urgency window: a date within this many calendar days
// (inclusive) classifies as "soon".
const SoonWindowDays = 7

// Lot is a specific batch of an Item with its own expiration date.
// A nil ExpirationDate means unknown/unset. Persisted lots always reference
// exactly one owning item; unowned lots exist only as scan-session drafts.
type Lot struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpirationDate *time.Time
	OpenedAt       *time.Time
	Notes          *string
	CreatedAt      time.Time
}

// ExpiryStatusOf classifies a date relative to now at calendar-day granularity
// in local time: before today = expired, within SoonWindowDays = soon.
func ExpiryStatusOf(d, now time.Time) string {
	days := daysUntil(d, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= SoonWindowDays:
		return StatusSoon
	default:
		return StatusNormal
	}
}

// daysUntil diffs the two local calendar dates, so a lot expiring later today
// still counts as 0 days away, not negative hours. The dates are re-anchored at
// UTC midnight before subtracting: every day is then exactly 24h long and a
// DST-shortened local day cannot skew the count.
func daysUntil(d, now time.Time) int {
	day := func(t time.Time) time.Time {
		y, m, dd := t.Local().Date()
		return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	}
	return int(day(d).Sub(day(now)) / (24 * time.Hour))
}
