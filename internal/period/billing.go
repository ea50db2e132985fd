package period

import "time"

// BillingPeriod is a bank statement cycle: statement day through the day
// before the next statement day.
type BillingPeriod struct {
	StartDate time.Time
	EndDate   time.Time
	Label     string
}

// Billing returns the statement cycle at monthOffset from the currently
// active cycle, for a bank that cuts statements on statementDay.
//
// On the statement day itself the just-closed period is still the active
// one (the new statement has not posted yet), hence the <= comparison. Note
// this is deliberately the opposite inclusivity from the installment
// engine, which bills a transaction made on the statement day into the
// next cycle.
//
// The label is taken from the end date's month: the cycle Dec 21 - Jan 20
// is the "January" statement, because that is the month it arrives in.
func Billing(statementDay, monthOffset int, ref time.Time) BillingPeriod {
	year := ref.Year()
	month := int(ref.Month())

	if ref.Day() <= statementDay {
		month--
	}
	month += monthOffset

	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}

	loc := ref.Location()
	// Statement days past the end of a short month roll into the next month
	// via date normalization. Accepted behavior; historical periods were
	// computed this way.
	startDate := time.Date(year, time.Month(month), statementDay, 0, 0, 0, 0, loc)

	endYear := year
	endMonth := month + 1
	if endMonth > 12 {
		endMonth = 1
		endYear++
	}
	// statementDay-1 is day zero when the statement day is the 1st, which
	// normalizes to the last day of the prior month.
	endDate := time.Date(endYear, time.Month(endMonth), statementDay-1, 23, 59, 59, 0, loc)

	return BillingPeriod{
		StartDate: startDate,
		EndDate:   endDate,
		Label:     endDate.Format("January 2006"),
	}
}

// Contains reports whether t falls inside the period, boundaries inclusive.
func (p BillingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}
