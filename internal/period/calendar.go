// Package period computes the two period shapes the dashboard works with:
// pure calendar months and bank statement (billing) cycles. Every function
// takes an explicit reference date so callers inject "now" once at the
// service boundary and tests can pin it.
package period

import "time"

// CalendarMonth is a pure calendar month (1st through last day).
type CalendarMonth struct {
	StartDate   time.Time
	EndDate     time.Time
	Label       string
	DaysInMonth int
}

// Month returns the calendar month at monthOffset from the reference date's
// month. Offsets may be any integer; year rollover is normalized so the
// month never leaves [Jan, Dec].
func Month(monthOffset int, ref time.Time) CalendarMonth {
	year := ref.Year()
	month := int(ref.Month()) + monthOffset

	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}

	loc := ref.Location()
	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	// Day zero of the following month is the last day of this one.
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc)
	daysInMonth := lastDay.Day()
	endDate := time.Date(year, time.Month(month), daysInMonth, 23, 59, 59, 0, loc)

	return CalendarMonth{
		StartDate:   startDate,
		EndDate:     endDate,
		Label:       startDate.Format("January 2006"),
		DaysInMonth: daysInMonth,
	}
}

// ElapsedDays returns the elapsed and remaining day counts of the calendar
// month relative to now, clamped to [0, DaysInMonth]. Before the month
// starts nothing has elapsed; after it ends the month is fully elapsed.
func (m CalendarMonth) ElapsedDays(now time.Time) (elapsed, remaining int) {
	if now.Before(m.StartDate) {
		return 0, m.DaysInMonth
	}
	if now.After(m.EndDate) {
		return m.DaysInMonth, 0
	}
	elapsed = int(now.Sub(m.StartDate).Hours()/24) + 1
	return elapsed, m.DaysInMonth - elapsed
}

// Contains reports whether t falls inside the month, boundaries inclusive.
func (m CalendarMonth) Contains(t time.Time) bool {
	return !t.Before(m.StartDate) && !t.After(m.EndDate)
}
