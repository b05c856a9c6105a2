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
)

const paymentColumns = `
	id, user_id, loan_id, amount, payment_date, type, method, notes,
	created_at, deleted_at, deleted_by, delete_reason
`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, loan_id, amount, payment_date, type, method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.UserID,
		payment.LoanID,
		payment.Amount.Round(2),
		payment.PaymentDate,
		payment.Type,
		payment.Method,
		payment.Notes,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, id, ownerID)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetLatestByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.Payment, error) {
	// Registration order, not payment_date: a back-dated payment still
	// performed the latest cycle renewal, and reversal must target it.
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE loan_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payment domain.Payment
	err := tx.GetContext(ctx, &payment, query, loanID)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE loan_id = $1 AND deleted_at IS NULL
		ORDER BY payment_date DESC, created_at DESC
	`

	payments := []*domain.Payment{}
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, ownerID uuid.UUID, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	args := []interface{}{ownerID}

	if filter.LoanID != nil {
		args = append(args, *filter.LoanID)
		query += ` AND loan_id = $` + strconv.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND payment_date >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += ` AND payment_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY payment_date DESC`

	payments := []*domain.Payment{}
	err := r.db.SelectContext(ctx, &payments, query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) SoftDelete(ctx context.Context, tx *sqlx.Tx, id, deletedBy uuid.UUID, reason string, now time.Time) error {
	query := `
		UPDATE payments
		SET deleted_at = $2, deleted_by = $3, delete_reason = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, id, now, deletedBy, reason)
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
