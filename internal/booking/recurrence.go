package booking

import (
	"time"
)

// Recurrence identifies how a booking series repeats.
type Recurrence string

const (
	RecurWeekly   Recurrence = "weekly"
	RecurBiweekly Recurrence = "biweekly"
	RecurMonthly  Recurrence = "monthly"
)

// ParseRecurrence validates a recurrence type supplied by the web layer.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(s) {
	case RecurWeekly, RecurBiweekly, RecurMonthly:
		return Recurrence(s), nil
	default:
		return "", validationErr("recurrence_type", "unknown recurrence type %q", s)
	}
}

// OccurrenceDate computes the date of occurrence i (i=0 is the base date
// itself) as a pure function of the inputs.
//
// weekly advances 7·i days, biweekly 14·i days. monthly advances i true
// calendar months; when the base day-of-month does not exist in the target
// month the day clamps to the month's last day and never rolls over into the
// following month (Jan 31 + 1 month = Feb 28, not Mar 3).
func OccurrenceDate(base time.Time, rec Recurrence, i int) time.Time {
	if i <= 0 {
		return base
	}

	switch rec {
	case RecurWeekly:
		return base.AddDate(0, 0, 7*i)
	case RecurBiweekly:
		return base.AddDate(0, 0, 14*i)
	case RecurMonthly:
		months := int(base.Month()) - 1 + i
		year := base.Year() + months/12
		month := time.Month(months%12 + 1)

		day := base.Day()
		if last := lastDayOfMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, 0, 0, 0, 0, base.Location())
	default:
		return base
	}
}

// Expand returns the full occurrence date sequence for a series: count
// dates, with the base date at index 0.
func Expand(base time.Time, rec Recurrence, count int) []time.Time {
	if count < 1 {
		return nil
	}

	dates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		dates[i] = OccurrenceDate(base, rec, i)
	}
	return dates
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
