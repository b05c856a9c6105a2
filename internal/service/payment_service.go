package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

// PaymentService drives the payment ledger state machine. Every transition
// runs inside one transaction holding a row lock on the loan, so two
// operations against the same loan can never interleave their
// read-modify-write of the ledger fields.
type PaymentService struct {
	txManager    repository.TxManager
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	settingsRepo repository.SettingsRepository
	config       *config.Config
}

func NewPaymentService(
	txManager repository.TxManager,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	settingsRepo repository.SettingsRepository,
	config *config.Config,
) *PaymentService {
	return &PaymentService{
		txManager:    txManager,
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		settingsRepo: settingsRepo,
		config:       config,
	}
}

// RegisterPayment appends a payment to a loan's ledger and applies its
// effect on the loan aggregate. Cycle renewal reads the lender's current
// default cycle length, not the one the loan was created with.
func (s *PaymentService) RegisterPayment(ctx context.Context, ownerID uuid.UUID, request *domain.RegisterPaymentRequest) (*domain.Payment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapValidation("payment amount must be greater than zero")
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.New(),
		UserID:      ownerID,
		LoanID:      request.LoanID,
		Amount:      request.Amount,
		PaymentDate: request.PaymentDate,
		Type:        request.Type,
		Method:      request.Method,
		Notes:       request.Notes,
		CreatedAt:   now,
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		loan, err := s.loanRepo.GetByIDAndOwnerForUpdate(ctx, tx, request.LoanID, ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(request.LoanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		cycleDays, err := s.currentCycleDays(ctx, tx, ownerID)
		if err != nil {
			return err
		}

		next, err := domain.ApplyPayment(*loan, *payment, cycleDays, now)
		if err != nil {
			return err
		}

		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := s.loanRepo.UpdateLedgerFields(ctx, tx, &next); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// ReversePayment soft-deletes a payment and undoes its loan-level effects.
// Only the loan's most recently registered non-deleted payment is
// reversible: applying the inverse to current state is only correct for the
// entry whose registration produced that state.
func (s *PaymentService) ReversePayment(ctx context.Context, ownerID, paymentID uuid.UUID, reason string) error {
	if err := domain.ValidateReversalReason(reason); err != nil {
		return err
	}

	now := time.Now()

	return s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		payment, err := s.paymentRepo.GetByIDAndOwner(ctx, paymentID, ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapPaymentNotFound(paymentID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		loan, err := s.loanRepo.GetByIDAndOwnerForUpdate(ctx, tx, payment.LoanID, ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(payment.LoanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		latest, err := s.paymentRepo.GetLatestByLoan(ctx, tx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if latest.ID != payment.ID {
			return customError.WrapValidation("only the most recently registered payment of a loan can be reversed")
		}

		cycleDays, err := s.currentCycleDays(ctx, tx, ownerID)
		if err != nil {
			return err
		}

		next, err := domain.ReversePayment(*loan, *payment, cycleDays, now)
		if err != nil {
			return err
		}

		if err := s.paymentRepo.SoftDelete(ctx, tx, payment.ID, ownerID, reason, now); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapPaymentNotFound(paymentID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		if err := s.loanRepo.UpdateLedgerFields(ctx, tx, &next); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
}

// GetPayments lists the owner's payments with optional loan/date filters.
func (s *PaymentService) GetPayments(ctx context.Context, ownerID uuid.UUID, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// currentCycleDays resolves the lender's cycle length inside the ledger
// transaction, share-locking the settings row so an update cannot slip in
// between the read and the transition that uses it.
func (s *PaymentService) currentCycleDays(ctx context.Context, tx *sqlx.Tx, ownerID uuid.UUID) (int, error) {
	settings, err := s.settingsRepo.GetByUserIDForShare(ctx, tx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.config.Business.DefaultCycleDays, nil
		}
		return 0, customError.WrapDatabaseError(err)
	}
	return settings.DefaultCycleDays, nil
}
