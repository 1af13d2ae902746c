// Package billing derives credit-card state from ledger facts: installment
// amortization, committed and available limit, synthesized monthly invoices
// and the payment ledger that marks them paid.
//
// Every function in this package is a pure transform of its arguments. Calendar
// values are civil dates so month and day comparisons never depend on a time
// zone.
package billing

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing d.
func PeriodOf(d civil.Date) Period {
	return Period{Year: d.Year, Month: d.Month}
}

// NewPeriod builds a Period, rejecting months outside 1-12.
func NewPeriod(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("invalid month %d", month)
	}
	return Period{Year: year, Month: month}, nil
}

// AddMonths returns the period n months later (earlier when n is negative).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + int(p.Month-1) + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Period{Year: year, Month: time.Month(month + 1)}
}

// Next returns the following month.
func (p Period) Next() Period { return p.AddMonths(1) }

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	return p.Year < q.Year || (p.Year == q.Year && p.Month < q.Month)
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// daysIn returns the number of days in the period's month.
func (p Period) daysIn() int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsBetween counts whole calendar months from the month of from to the
// period to. The result is negative when to precedes from.
func MonthsBetween(from civil.Date, to Period) int {
	return (to.Year-from.Year)*12 + int(to.Month-from.Month)
}

// InstallmentActive reports whether an installment of p falls in period, i.e.
// the period lies in the half-open range [purchase month, purchase month + n).
func InstallmentActive(p Purchase, period Period) bool {
	elapsed := MonthsBetween(p.PurchaseDate, period)
	return elapsed >= 0 && elapsed < p.InstallmentCount
}

// DueDateFor returns the card's due date within period. A due day past the end
// of the month is clamped to the month's last day.
func DueDateFor(c Card, period Period) civil.Date {
	return period.Day(c.DueDay)
}

// Day returns the given day of the period, clamped into the month.
func (p Period) Day(day int) civil.Date {
	if last := p.daysIn(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return civil.Date{Year: p.Year, Month: p.Month, Day: day}
}

// NextDueDate returns the due date of the current cycle, or of the following
// month when the current one has already passed. It backs "upcoming invoice"
// views only; fixed-period invoices use DueDateFor.
func NextDueDate(c Card, today civil.Date) civil.Date {
	due := DueDateFor(c, PeriodOf(today))
	if due.Before(today) {
		return DueDateFor(c, PeriodOf(today).Next())
	}
	return due
}
