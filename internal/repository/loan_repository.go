package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

const loanColumns = `
	id, user_id, client_id, principal_amount, interest_rate, daily_penalty,
	loan_date, due_date, remaining_principal, total_paid, status, paid_at,
	notes, created_at, updated_at, deleted_at
`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, client_id, principal_amount, interest_rate, daily_penalty,
			loan_date, due_date, remaining_principal, total_paid, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.UserID,
		loan.ClientID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.DailyPenalty,
		loan.LoanDate,
		loan.DueDate,
		loan.RemainingPrincipal,
		loan.TotalPaid,
		loan.Status,
		loan.Notes,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id, ownerID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDAndOwnerForUpdate(ctx context.Context, tx *sqlx.Tx, id, ownerID uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`

	var loan domain.Loan
	err := tx.GetContext(ctx, &loan, query, id, ownerID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) UpdateLedgerFields(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET loan_date = $2, due_date = $3, remaining_principal = $4, total_paid = $5,
			status = $6, paid_at = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		loan.ID,
		loan.LoanDate,
		loan.DueDate,
		loan.RemainingPrincipal.Round(2),
		loan.TotalPaid.Round(2),
		loan.Status,
		loan.PaidAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) UpdateDueDate(ctx context.Context, id, ownerID uuid.UUID, dueDate time.Time) error {
	query := `
		UPDATE loans
		SET due_date = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, dueDate, time.Now())
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *loanRepository) List(ctx context.Context, ownerID uuid.UUID, filter domain.LoanFilter) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	args := []interface{}{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += ` AND client_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	loans := []*domain.Loan{}
	err := r.db.SelectContext(ctx, &loans, query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListPending(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1 AND status <> $2 AND deleted_at IS NULL
		ORDER BY due_date ASC
	`

	loans := []*domain.Loan{}
	err := r.db.SelectContext(ctx, &loans, query, ownerID, domain.LoanStatusPaid)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) CountOpenByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loans
		WHERE client_id = $1 AND status <> $2 AND deleted_at IS NULL
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, clientID, domain.LoanStatusPaid)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	return count, nil
}
