package domain

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

// The ledger state machine. Each transition takes the current loan snapshot
// and returns a new one; callers persist the returned snapshot inside a
// single transaction so no shared mutable state leaks out of it.

// ApplyPayment applies a registered payment to a loan snapshot.
//
// FULL_SETTLEMENT closes the contract: the act of marking full settlement is
// authoritative regardless of whether the amount matches the computed total
// due. INTEREST_ONLY renews the cycle from the payment date using the
// lender's current cycle length and never touches the principal.
func ApplyPayment(loan Loan, payment Payment, cycleDays int, now time.Time) (Loan, error) {
	if loan.Status == LoanStatusPaid {
		return loan, customError.WrapLoanAlreadySettled(loan.ID.String())
	}
	if !payment.Amount.IsPositive() {
		return loan, customError.WrapValidation("payment amount must be greater than zero")
	}

	next := loan
	next.TotalPaid = loan.TotalPaid.Add(payment.Amount)
	next.UpdatedAt = now

	switch payment.Type {
	case PaymentTypeFullSettlement:
		next.RemainingPrincipal = decimal.Zero
		next.Status = LoanStatusPaid
		paidAt := now
		next.PaidAt = &paidAt
	case PaymentTypeInterestOnly:
		next.LoanDate = payment.PaymentDate
		next.DueDate = utils.CalculateDueDate(payment.PaymentDate, cycleDays)
		next.Status = LoanStatusActive
	default:
		return loan, customError.WrapValidation("unknown payment type: " + payment.Type)
	}

	return next, nil
}

// ReversePayment undoes the loan-level effects of a previously registered
// payment. The inverse is applied to the current snapshot, not replayed from
// history, which is why only the most recent payment of a loan may be
// reversed: rolling the cycle back one lender-configured length is only
// correct when the reversed payment performed the latest renewal.
func ReversePayment(loan Loan, payment Payment, cycleDays int, now time.Time) (Loan, error) {
	if payment.LoanID != loan.ID {
		return loan, customError.WrapValidation("payment does not belong to this loan")
	}

	next := loan
	next.TotalPaid = utils.ClampToZero(loan.TotalPaid.Sub(payment.Amount))
	next.UpdatedAt = now

	switch payment.Type {
	case PaymentTypeFullSettlement:
		// Settlement is terminal, so at most one ever existed: restoring
		// the original principal in full is the exact inverse.
		next.RemainingPrincipal = loan.PrincipalAmount
		next.Status = LoanStatusActive
		next.PaidAt = nil
	case PaymentTypeInterestOnly:
		next.LoanDate = loan.LoanDate.AddDate(0, 0, -cycleDays)
		next.DueDate = loan.DueDate.AddDate(0, 0, -cycleDays)
	default:
		return loan, customError.WrapValidation("unknown payment type: " + payment.Type)
	}

	return next, nil
}

// ValidateReversalReason enforces the audit-trail friction on reversals.
func ValidateReversalReason(reason string) error {
	if len(reason) < 10 {
		return customError.WrapValidation("reversal reason must have at least 10 characters")
	}
	return nil
}
