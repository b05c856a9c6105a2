package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

type metricRow struct {
	Amount decimal.NullDecimal `db:"amount"`
	Count  int                 `db:"count"`
}

func (row metricRow) bucket() domain.MetricBucket {
	amount := decimal.Zero
	if row.Amount.Valid {
		amount = row.Amount.Decimal
	}
	return domain.MetricBucket{Amount: amount, Count: row.Count}
}

func (r *reportRepository) GetMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*domain.ReportMetrics, error) {
	metrics := &domain.ReportMetrics{PeriodStart: start, PeriodEnd: end}

	var lent metricRow
	err := r.db.GetContext(ctx, &lent, `
		SELECT COALESCE(SUM(principal_amount), 0) AS amount, COUNT(*) AS count
		FROM loans
		WHERE user_id = $1 AND loan_date BETWEEN $2 AND $3 AND deleted_at IS NULL
	`, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	metrics.TotalLent = lent.bucket()

	var received metricRow
	err = r.db.GetContext(ctx, &received, `
		SELECT COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count
		FROM payments
		WHERE user_id = $1 AND payment_date BETWEEN $2 AND $3 AND deleted_at IS NULL
	`, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	metrics.TotalReceived = received.bucket()

	var interest metricRow
	err = r.db.GetContext(ctx, &interest, `
		SELECT COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count
		FROM payments
		WHERE user_id = $1 AND payment_date BETWEEN $2 AND $3
			AND type = $4 AND deleted_at IS NULL
	`, ownerID, start, end, domain.PaymentTypeInterestOnly)
	if err != nil {
		return nil, err
	}
	metrics.InterestReceived = interest.bucket()

	var portfolio metricRow
	err = r.db.GetContext(ctx, &portfolio, `
		SELECT COALESCE(SUM(remaining_principal), 0) AS amount, COUNT(*) AS count
		FROM loans
		WHERE user_id = $1 AND status <> $2 AND deleted_at IS NULL
	`, ownerID, domain.LoanStatusPaid)
	if err != nil {
		return nil, err
	}
	metrics.ActivePortfolio = portfolio.bucket()

	var delinquent metricRow
	err = r.db.GetContext(ctx, &delinquent, `
		SELECT COALESCE(SUM(remaining_principal), 0) AS amount, COUNT(*) AS count
		FROM loans
		WHERE user_id = $1 AND status <> $2 AND due_date < $3 AND deleted_at IS NULL
	`, ownerID, domain.LoanStatusPaid, utils.TruncateToDay(time.Now()))
	if err != nil {
		return nil, err
	}
	metrics.Delinquency = delinquent.bucket()

	return metrics, nil
}

func (r *reportRepository) ListDueSoon(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*domain.DueSoonLoan, error) {
	query := `
		SELECT l.id, l.user_id, l.client_id, l.principal_amount, l.interest_rate, l.daily_penalty,
			l.loan_date, l.due_date, l.remaining_principal, l.total_paid, l.status, l.paid_at,
			l.notes, l.created_at, l.updated_at, l.deleted_at,
			c.name AS client_name, c.phone AS client_phone
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		WHERE l.user_id = $1 AND l.status = $2 AND l.deleted_at IS NULL
			AND l.due_date BETWEEN $3 AND $4
		ORDER BY l.due_date ASC
	`

	type dueSoonRow struct {
		domain.Loan
		ClientName  string `db:"client_name"`
		ClientPhone string `db:"client_phone"`
	}

	rows := []dueSoonRow{}
	err := r.db.SelectContext(ctx, &rows, query, ownerID, domain.LoanStatusActive, from, to)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	alerts := make([]*domain.DueSoonLoan, 0, len(rows))
	for i := range rows {
		row := rows[i]
		alerts = append(alerts, &domain.DueSoonLoan{
			Loan:       &row.Loan,
			ClientName: row.ClientName,
			Phone:      row.ClientPhone,
			DaysLeft:   utils.DaysBetween(from, row.DueDate),
		})
	}

	return alerts, nil
}

func (r *reportRepository) ListOwnersWithOpenLoans(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM loans
		WHERE status <> $1 AND deleted_at IS NULL
	`

	owners := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &owners, query, domain.LoanStatusPaid)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return owners, nil
}
