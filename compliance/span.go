package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SPAN - Requested day count for a draft
// =============================================================================

var halfDay = decimal.NewFromFloat(0.5)

// RequestedSpan returns the calendar-day count a draft consumes.
// Half-day requests are exactly 0.5 regardless of dates; everything
// else is the inclusive day count between start and end. Weekends and
// holidays are NOT subtracted - balance is charged in calendar days
// (working-day math is a separate reporting concern, below).
func RequestedSpan(d RequestDraft) decimal.Decimal {
	if d.IsHalfDay {
		return halfDay
	}
	return decimal.NewFromInt(int64(DaysBetween(d.StartDate, d.EndDate) + 1))
}

// =============================================================================
// WORKING DAYS - Weekdays minus holidays
// =============================================================================

// WorkingDaysInRange counts weekdays in [from, to] that are not active
// holidays. Used by the monthly working-days job, not by the rule
// battery.
func WorkingDaysInRange(from, to Date, holidays []Holiday) int {
	offDays := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		if h.IsActive {
			offDays[h.Date.String()] = true
		}
	}

	count := 0
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if d.IsWorkday() && !offDays[d.String()] {
			count++
		}
	}
	return count
}

// WorkingDaysInMonth counts working days in the given month.
func WorkingDaysInMonth(year int, month time.Month, holidays []Holiday) int {
	return WorkingDaysInRange(StartOfMonth(year, month), EndOfMonth(year, month), holidays)
}
