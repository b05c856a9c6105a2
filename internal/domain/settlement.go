package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

// Interest accrues pro-rata over a fixed 30-day window regardless of the
// lender's configured due-date cycle, so a cycle left overdue keeps accruing
// instead of freezing at the nominal cycle amount.
const accrualCycleDays = 30

var (
	hundred      = decimal.NewFromInt(100)
	accrualCycle = decimal.NewFromInt(accrualCycleDays)
)

// SettlementDetails is a pure projection of what closing a loan would cost
// at a reference date. It is computed on demand and never persisted.
type SettlementDetails struct {
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalDue    decimal.Decimal `json:"total_due"`
	DaysElapsed int             `json:"days_elapsed"`
	DaysOverdue int             `json:"days_overdue"`
}

// ComputeInterest returns the interest accrued on a principal after the
// given number of days: principal * (rate/100) * (days/30), linear and
// non-compounding. The product is taken before the single division to keep
// the decimal arithmetic exact as long as possible.
func ComputeInterest(principal, rate decimal.Decimal, daysElapsed int) decimal.Decimal {
	days := decimal.NewFromInt(int64(daysElapsed))
	return principal.Mul(rate).Mul(days).Div(hundred.Mul(accrualCycle))
}

// ComputePenalty returns the flat daily penalty accumulated over the
// overdue days. Zero while the loan is not overdue.
func ComputePenalty(dailyPenalty decimal.Decimal, daysOverdue int) decimal.Decimal {
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	return dailyPenalty.Mul(decimal.NewFromInt(int64(daysOverdue)))
}

// ComputeSettlement derives the amount owed on a loan as of now, broken into
// principal, interest and penalty. It is referentially transparent: same
// inputs always yield the same output, and well-formed inputs never fail.
// Rounding to 2 decimal places happens only at the display or persistence
// boundary, never here.
func ComputeSettlement(principal, interestRate, dailyPenalty decimal.Decimal, loanDate, dueDate, now time.Time) SettlementDetails {
	daysElapsed := utils.DaysSince(loanDate, now)
	daysOverdue := utils.DaysSince(dueDate, now)

	interest := ComputeInterest(principal, interestRate, daysElapsed)
	penalty := ComputePenalty(dailyPenalty, daysOverdue)

	totalDue := utils.ClampToZero(principal.Add(interest).Add(penalty))

	return SettlementDetails{
		Principal:   principal,
		Interest:    interest,
		Penalty:     penalty,
		TotalPaid:   decimal.Zero,
		TotalDue:    totalDue,
		DaysElapsed: daysElapsed,
		DaysOverdue: daysOverdue,
	}
}

func daysOverdueAt(dueDate, now time.Time) int {
	return utils.DaysSince(dueDate, now)
}
