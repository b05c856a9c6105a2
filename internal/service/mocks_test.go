package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/dmoretti/loanbook-engine/internal/domain"
)

// fakeTxManager runs the transactional function directly. Repository mocks
// ignore the tx handle, so passing nil is safe in tests.
type fakeTxManager struct{}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return fn(ctx, nil)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDAndOwnerForUpdate(ctx context.Context, tx *sqlx.Tx, id, ownerID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, tx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateLedgerFields(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateDueDate(ctx context.Context, id, ownerID uuid.UUID, dueDate time.Time) error {
	args := m.Called(ctx, id, ownerID, dueDate)
	return args.Error(0)
}

func (m *MockLoanRepository) List(ctx context.Context, ownerID uuid.UUID, filter domain.LoanFilter) ([]*domain.Loan, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListPending(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CountOpenByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetLatestByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, ownerID uuid.UUID, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SoftDelete(ctx context.Context, tx *sqlx.Tx, id, deletedBy uuid.UUID, reason string, now time.Time) error {
	args := m.Called(ctx, tx, id, deletedBy, reason, now)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByCPF(ctx context.Context, ownerID uuid.UUID, cpf string, excludeID *uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, ownerID, cpf, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SoftDelete(ctx context.Context, id, ownerID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, ownerID, now)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, ownerID uuid.UUID, search string) ([]*domain.Client, error) {
	args := m.Called(ctx, ownerID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.LenderSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LenderSettings), args.Error(1)
}

func (m *MockSettingsRepository) GetByUserIDForShare(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*domain.LenderSettings, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LenderSettings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *domain.LenderSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
