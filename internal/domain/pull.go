package domain

import (
	"math"
	"time"
)

// PullEvent is one successful card draw. There is at most one event per
// (user, pack, calendar day); pull_date is the gating and streak key while
// occurred_at is kept for display and tie-breaking only.
type PullEvent struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	PackID     string    `db:"pack_id" json:"pack_id"`
	CardID     int       `db:"card_id" json:"card_id"`
	PullDate   time.Time `db:"pull_date" json:"pull_date"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// Day returns the event's calendar day as midnight in loc. The stored date
// is a label, not an instant: its year/month/day are reinterpreted in loc
// rather than converted, so DATE columns scanned as UTC midnight keep their
// calendar day under any server timezone.
func (e *PullEvent) Day(loc *time.Location) time.Time {
	y, m, d := e.PullDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns the whole-day difference between two dates. Both are
// truncated to midnight first and the result is rounded, so DST-shortened
// days do not skew the count.
func DaysBetween(from, to time.Time) int {
	from = Midnight(from)
	to = Midnight(to.In(from.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// StreakSnapshot is derived from a user's pull history on every read and is
// never persisted.
type StreakSnapshot struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}
