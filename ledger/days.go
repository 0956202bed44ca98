package ledger

import "time"

// Band is the display classification of a due payment.
type Band string

const (
	BandOverdue       Band = "overdue"
	BandDueSoon       Band = "due-soon"
	BandUpcoming      Band = "upcoming"
	BandPartiallyPaid Band = "partially_paid"
)

// dueSoonWindowDays is the inclusive upper bound of the due-soon band.
const dueSoonWindowDays = 7

// DaysRemaining returns the signed number of calendar days between now and
// the due date. Both instants are truncated to their date in UTC first, so
// the result is independent of time-of-day. Negative means overdue.
func DaysRemaining(dueDate, now time.Time) int {
	due := truncateToDay(dueDate)
	today := truncateToDay(now)
	return int(due.Sub(today).Hours() / 24)
}

// ClassifyDays maps a day count onto a display band.
func ClassifyDays(daysRemaining int) Band {
	switch {
	case daysRemaining < 0:
		return BandOverdue
	case daysRemaining <= dueSoonWindowDays:
		return BandDueSoon
	default:
		return BandUpcoming
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
