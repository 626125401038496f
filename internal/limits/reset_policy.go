package limits

import (
	"statekeeper/internal/models"
	"time"
)

// NeverResets is the reset instant of policies that never reset.
var NeverResets = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// NextResetAfter returns the first reset boundary of kind strictly after
// ref. All boundaries are UTC.
func NextResetAfter(kind models.LimitKind, ref time.Time) time.Time {
	ref = ref.UTC()
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch kind {
	case models.LimitDaily:
		return midnight.AddDate(0, 0, 1)
	case models.LimitWeekly:
		daysUntilMonday := (int(time.Monday) - int(ref.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		return midnight.AddDate(0, 0, daysUntilMonday)
	case models.LimitMonthly:
		return time.Date(ref.Year(), ref.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return NeverResets
	}
}

// HasResetOccurred reports whether a reset boundary of kind has passed
// between last and now.
func HasResetOccurred(last time.Time, kind models.LimitKind, now time.Time) bool {
	return !now.Before(NextResetAfter(kind, last))
}
