package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoretti/loanbook-engine/internal/domain"
)

// TxManager runs a function inside a single database transaction. Ledger
// transitions are read-modify-write over a loan's aggregate fields and must
// not interleave, so registration and reversal always go through it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByIDAndOwner retrieves a loan scoped to its owner
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Loan, error)

	// GetByIDAndOwnerForUpdate retrieves a loan inside a transaction holding
	// a row lock, serializing concurrent ledger transitions on the same loan
	GetByIDAndOwnerForUpdate(ctx context.Context, tx *sqlx.Tx, id, ownerID uuid.UUID) (*domain.Loan, error)

	// UpdateLedgerFields persists the aggregate fields produced by a ledger transition
	UpdateLedgerFields(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error

	// UpdateDueDate is the administrative due-date override, a direct field
	// set outside the state machine
	UpdateDueDate(ctx context.Context, id, ownerID uuid.UUID, dueDate time.Time) error

	// List retrieves the owner's loans with optional status/client filters
	List(ctx context.Context, ownerID uuid.UUID, filter domain.LoanFilter) ([]*domain.Loan, error)

	// ListPending retrieves the owner's unsettled loans ordered by due date
	ListPending(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error)

	// CountOpenByClient counts a client's non-deleted loans that are not settled
	CountOpenByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create appends a payment record inside a ledger transaction
	Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error

	// GetByIDAndOwner retrieves a payment scoped to its owner
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Payment, error)

	// GetLatestByLoan retrieves the most recently registered non-deleted
	// payment of a loan, by creation order rather than payment date
	GetLatestByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.Payment, error)

	// ListByLoan retrieves the non-deleted payments of a loan, newest first
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// List retrieves the owner's payments with optional loan/date filters
	List(ctx context.Context, ownerID uuid.UUID, filter domain.PaymentFilter) ([]*domain.Payment, error)

	// SoftDelete marks a payment reversed with actor and reason, keeping the row
	SoftDelete(ctx context.Context, tx *sqlx.Tx, id, deletedBy uuid.UUID, reason string, now time.Time) error
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Client, error)
	GetByCPF(ctx context.Context, ownerID uuid.UUID, cpf string, excludeID *uuid.UUID) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	SoftDelete(ctx context.Context, id, ownerID uuid.UUID, now time.Time) error
	List(ctx context.Context, ownerID uuid.UUID, search string) ([]*domain.Client, error)
}

// SettingsRepository defines the interface for lender settings operations
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.LenderSettings, error)

	// GetByUserIDForShare reads the settings inside a ledger transaction
	// holding a share lock, so a concurrent settings update cannot race the
	// cycle length a transition is about to apply
	GetByUserIDForShare(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*domain.LenderSettings, error)

	Update(ctx context.Context, settings *domain.LenderSettings) error
}

// ReportRepository defines the aggregate queries behind reports and alerts
type ReportRepository interface {
	GetMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*domain.ReportMetrics, error)
	ListDueSoon(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*domain.DueSoonLoan, error)
	ListOwnersWithOpenLoans(ctx context.Context) ([]uuid.UUID, error)
}
