package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

func activeLoan() Loan {
	return Loan{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		ClientID:           uuid.New(),
		PrincipalAmount:    decimal.NewFromInt(1000),
		InterestRate:       decimal.NewFromInt(30),
		DailyPenalty:       decimal.NewFromInt(50),
		LoanDate:           date(2024, time.January, 1),
		DueDate:            date(2024, time.January, 31),
		RemainingPrincipal: decimal.NewFromInt(1000),
		TotalPaid:          decimal.Zero,
		Status:             LoanStatusActive,
	}
}

func paymentFor(loan Loan, amount int64, paymentType string, when time.Time) Payment {
	return Payment{
		ID:          uuid.New(),
		UserID:      loan.UserID,
		LoanID:      loan.ID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: when,
		Type:        paymentType,
		Method:      PaymentMethodPix,
	}
}

func TestApplyPayment_FullSettlement(t *testing.T) {
	loan := activeLoan()
	now := date(2024, time.January, 31)
	payment := paymentFor(loan, 1300, PaymentTypeFullSettlement, now)

	next, err := ApplyPayment(loan, payment, 30, now)
	require.NoError(t, err)

	assert.Equal(t, LoanStatusPaid, next.Status)
	assert.True(t, next.RemainingPrincipal.IsZero())
	assert.True(t, next.TotalPaid.Equal(decimal.NewFromInt(1300)))
	require.NotNil(t, next.PaidAt)
	assert.Equal(t, now, *next.PaidAt)
}

func TestApplyPayment_FullSettlementIsAuthoritative(t *testing.T) {
	// Closing the contract is the lender's call, the amount does not
	// have to match the computed total due.
	loan := activeLoan()
	now := date(2024, time.January, 31)
	payment := paymentFor(loan, 900, PaymentTypeFullSettlement, now)

	next, err := ApplyPayment(loan, payment, 30, now)
	require.NoError(t, err)

	assert.Equal(t, LoanStatusPaid, next.Status)
	assert.True(t, next.RemainingPrincipal.IsZero())
}

func TestApplyPayment_InterestOnlyRenewsCycle(t *testing.T) {
	loan := activeLoan()
	paymentDate := date(2024, time.January, 31)
	payment := paymentFor(loan, 300, PaymentTypeInterestOnly, paymentDate)

	next, err := ApplyPayment(loan, payment, 30, paymentDate)
	require.NoError(t, err)

	assert.Equal(t, LoanStatusActive, next.Status)
	assert.Equal(t, paymentDate, next.LoanDate)
	assert.Equal(t, date(2024, time.March, 1), next.DueDate)
	assert.True(t, next.RemainingPrincipal.Equal(loan.PrincipalAmount))
	assert.True(t, next.TotalPaid.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, next.PaidAt)
}

func TestApplyPayment_InterestOnlyUsesCurrentCycleLength(t *testing.T) {
	loan := activeLoan()
	paymentDate := date(2024, time.January, 31)
	payment := paymentFor(loan, 300, PaymentTypeInterestOnly, paymentDate)

	next, err := ApplyPayment(loan, payment, 15, paymentDate)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.February, 15), next.DueDate)
}

func TestApplyPayment_SettledLoanRejectsPayments(t *testing.T) {
	loan := activeLoan()
	loan.Status = LoanStatusPaid
	now := date(2024, time.February, 1)
	payment := paymentFor(loan, 100, PaymentTypeInterestOnly, now)

	_, err := ApplyPayment(loan, payment, 30, now)

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeLoanAlreadySettled, bizErr.Code)
}

func TestApplyPayment_RejectsNonPositiveAmount(t *testing.T) {
	loan := activeLoan()
	now := date(2024, time.January, 31)

	for _, amount := range []int64{0, -50} {
		payment := paymentFor(loan, amount, PaymentTypeInterestOnly, now)
		_, err := ApplyPayment(loan, payment, 30, now)

		var bizErr *customError.BusinessError
		require.ErrorAs(t, err, &bizErr)
		assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)
	}
}

func TestApplyPayment_RejectsUnknownType(t *testing.T) {
	loan := activeLoan()
	now := date(2024, time.January, 31)
	payment := paymentFor(loan, 100, "PARTIAL", now)

	_, err := ApplyPayment(loan, payment, 30, now)
	assert.Error(t, err)
}

func TestApplyPayment_DoesNotMutateInput(t *testing.T) {
	loan := activeLoan()
	snapshot := loan
	now := date(2024, time.January, 31)
	payment := paymentFor(loan, 1300, PaymentTypeFullSettlement, now)

	_, err := ApplyPayment(loan, payment, 30, now)
	require.NoError(t, err)

	assert.Equal(t, snapshot, loan)
}

func TestReversePayment_FullSettlementRoundTrip(t *testing.T) {
	loan := activeLoan()
	now := date(2024, time.January, 31)
	payment := paymentFor(loan, 1300, PaymentTypeFullSettlement, now)

	settled, err := ApplyPayment(loan, payment, 30, now)
	require.NoError(t, err)

	restored, err := ReversePayment(settled, payment, 30, now)
	require.NoError(t, err)

	assert.Equal(t, LoanStatusActive, restored.Status)
	assert.True(t, restored.RemainingPrincipal.Equal(loan.PrincipalAmount))
	assert.True(t, restored.TotalPaid.Equal(loan.TotalPaid))
	assert.Nil(t, restored.PaidAt)
	assert.Equal(t, loan.LoanDate, restored.LoanDate)
	assert.Equal(t, loan.DueDate, restored.DueDate)
}

func TestReversePayment_InterestOnlyRoundTrip(t *testing.T) {
	loan := activeLoan()
	paymentDate := date(2024, time.January, 31)
	payment := paymentFor(loan, 300, PaymentTypeInterestOnly, paymentDate)

	renewed, err := ApplyPayment(loan, payment, 30, paymentDate)
	require.NoError(t, err)

	restored, err := ReversePayment(renewed, payment, 30, paymentDate)
	require.NoError(t, err)

	assert.Equal(t, loan.LoanDate, restored.LoanDate)
	assert.Equal(t, loan.DueDate, restored.DueDate)
	assert.True(t, restored.TotalPaid.Equal(loan.TotalPaid))
	assert.Equal(t, LoanStatusActive, restored.Status)
}

func TestReversePayment_TotalPaidNeverGoesNegative(t *testing.T) {
	loan := activeLoan()
	loan.TotalPaid = decimal.NewFromInt(100)
	now := date(2024, time.February, 1)
	payment := paymentFor(loan, 300, PaymentTypeInterestOnly, now)

	restored, err := ReversePayment(loan, payment, 30, now)
	require.NoError(t, err)

	assert.True(t, restored.TotalPaid.IsZero())
}

func TestReversePayment_RejectsForeignPayment(t *testing.T) {
	loan := activeLoan()
	other := activeLoan()
	now := date(2024, time.February, 1)
	payment := paymentFor(other, 300, PaymentTypeInterestOnly, now)

	_, err := ReversePayment(loan, payment, 30, now)

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)
}

func TestValidateReversalReason(t *testing.T) {
	assert.Error(t, ValidateReversalReason(""))
	assert.Error(t, ValidateReversalReason("too short"))
	assert.NoError(t, ValidateReversalReason("registered against the wrong loan"))
}

func TestDeriveStatus(t *testing.T) {
	loan := activeLoan()

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"before due date", date(2024, time.January, 15), LoanStatusActive},
		{"on due date", date(2024, time.January, 31), LoanStatusActive},
		{"one day past due", date(2024, time.February, 1), LoanStatusLate},
		{"at the late threshold", date(2024, time.February, 7), LoanStatusLate},
		{"beyond the late threshold", date(2024, time.February, 8), LoanStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, loan.DeriveStatus(tt.now, 7))
		})
	}

	t.Run("paid wins over the clock", func(t *testing.T) {
		paid := activeLoan()
		paid.Status = LoanStatusPaid
		assert.Equal(t, LoanStatusPaid, paid.DeriveStatus(date(2024, time.June, 1), 7))
	})
}
