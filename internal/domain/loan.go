package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Persisted loan statuses. LATE and OVERDUE are presentation-only
// refinements derived from the due date, never written by the ledger.
const (
	LoanStatusActive  = "ACTIVE"
	LoanStatusPaid    = "PAID"
	LoanStatusLate    = "LATE"
	LoanStatusOverdue = "OVERDUE"
)

// Loan represents one lending contract
type Loan struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	UserID             uuid.UUID       `json:"user_id" db:"user_id"`
	ClientID           uuid.UUID       `json:"client_id" db:"client_id"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	DailyPenalty       decimal.Decimal `json:"daily_penalty" db:"daily_penalty"`
	LoanDate           time.Time       `json:"loan_date" db:"loan_date"`
	DueDate            time.Time       `json:"due_date" db:"due_date"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal" db:"remaining_principal"`
	TotalPaid          decimal.Decimal `json:"total_paid" db:"total_paid"`
	Status             string          `json:"status" db:"status"`
	PaidAt             *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	Notes              string          `json:"notes" db:"notes"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsOpen reports whether the loan still has principal or interest outstanding.
func (l *Loan) IsOpen() bool {
	return l.Status != LoanStatusPaid
}

// DeriveStatus refines the persisted status against the clock for display.
// A loan past its due date is LATE up to lateThresholdDays and OVERDUE beyond.
func (l *Loan) DeriveStatus(now time.Time, lateThresholdDays int) string {
	if l.Status == LoanStatusPaid {
		return LoanStatusPaid
	}

	daysOverdue := daysOverdueAt(l.DueDate, now)
	switch {
	case daysOverdue == 0:
		return LoanStatusActive
	case daysOverdue <= lateThresholdDays:
		return LoanStatusLate
	default:
		return LoanStatusOverdue
	}
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID        uuid.UUID        `json:"client_id" validate:"required"`
	PrincipalAmount decimal.Decimal  `json:"principal_amount" validate:"required"`
	LoanDate        time.Time        `json:"loan_date" validate:"required"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty"`
	DailyPenalty    *decimal.Decimal `json:"daily_penalty,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

type UpdateDueDateRequest struct {
	DueDate time.Time `json:"due_date" validate:"required"`
}

type LoanFilter struct {
	Status   string
	ClientID *uuid.UUID
}

type LoanDetailResponse struct {
	Loan       *Loan              `json:"loan"`
	Client     *Client            `json:"client,omitempty"`
	Payments   []*Payment         `json:"payments"`
	Settlement *SettlementDetails `json:"settlement"`
	Status     string             `json:"derived_status"`
}
