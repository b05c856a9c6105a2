package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

// Postgres error codes that indicate the transaction lost a race with a
// concurrent ledger transition on the same loan.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &txManager{db: db}
}

// WithinTx begins a transaction, runs fn and commits; any error rolls the
// whole transaction back so a failed transition leaves no partial write.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return translateConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return translateConflict(customError.WrapDatabaseError(err))
	}

	return nil
}

// translateConflict surfaces isolation violations as a typed conflict the
// caller is expected to retry, instead of a generic database failure.
func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
			return customError.NewBusinessError(
				customError.ErrCodeConcurrencyConflict,
				"transaction conflicted with a concurrent operation, retry",
				customError.ErrConcurrencyConflict,
			)
		}
	}
	return err
}
