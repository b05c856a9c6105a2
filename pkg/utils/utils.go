package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysBetween returns the number of whole days from one date to another,
// ignoring the time-of-day component of both.
func DaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// DaysSince returns the whole days elapsed from a date until now, never negative.
func DaysSince(date, now time.Time) int {
	days := DaysBetween(date, now)
	if days < 0 {
		return 0
	}
	return days
}

// CalculateDueDate returns the end of a cycle that starts at loanDate.
func CalculateDueDate(loanDate time.Time, cycleDays int) time.Time {
	return loanDate.AddDate(0, 0, cycleDays)
}

// TruncateToDay strips the time-of-day component, keeping UTC midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampToZero replaces a negative amount with zero. Monetary results must
// never be surfaced as negative.
func ClampToZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
