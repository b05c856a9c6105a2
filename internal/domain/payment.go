package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment types. The two are mutually exclusive in their effect on the loan:
// a full settlement closes the contract, an interest-only payment renews the
// cycle and leaves the principal untouched.
const (
	PaymentTypeInterestOnly   = "INTEREST_ONLY"
	PaymentTypeFullSettlement = "FULL_SETTLEMENT"
)

// Payment methods are informational only and never affect the ledger.
const (
	PaymentMethodPix      = "PIX"
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodOther    = "OTHER"
)

// Payment is one ledger entry against a loan. Payments are only ever
// soft-deleted, the row stays as audit trail.
type Payment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	LoanID       uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate  time.Time       `json:"payment_date" db:"payment_date"`
	Type         string          `json:"type" db:"type"`
	Method       string          `json:"method" db:"method"`
	Notes        string          `json:"notes" db:"notes"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy    *uuid.UUID      `json:"deleted_by,omitempty" db:"deleted_by"`
	DeleteReason *string         `json:"delete_reason,omitempty" db:"delete_reason"`
}

// IsReversed reports whether the payment has been soft-deleted.
func (p *Payment) IsReversed() bool {
	return p.DeletedAt != nil
}

// DTOs for requests and responses

type RegisterPaymentRequest struct {
	LoanID      uuid.UUID       `json:"loan_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=INTEREST_ONLY FULL_SETTLEMENT"`
	Method      string          `json:"method" validate:"required,oneof=PIX CASH TRANSFER OTHER"`
	Notes       string          `json:"notes,omitempty"`
}

type ReversePaymentRequest struct {
	Reason string `json:"reason" validate:"required,min=10"`
}

type PaymentFilter struct {
	LoanID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
