package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

type LoanService struct {
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	clientRepo   repository.ClientRepository
	settingsRepo repository.SettingsRepository
	config       *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	config *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		config:       config,
	}
}

// CreateLoan opens a new lending contract. Rate, penalty and cycle length
// fall back to the lender's configured defaults and are frozen on the loan.
func (s *LoanService) CreateLoan(ctx context.Context, ownerID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	if !request.PrincipalAmount.IsPositive() {
		return nil, customError.WrapValidation("principal amount must be greater than zero")
	}

	if _, err := s.clientRepo.GetByIDAndOwner(ctx, request.ClientID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClientNotFound(request.ClientID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	defaults, err := s.resolveDefaults(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	interestRate := defaults.DefaultInterestRate
	if request.InterestRate != nil {
		interestRate = *request.InterestRate
	}
	if interestRate.IsNegative() || interestRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, customError.WrapValidation("interest rate must be between 0 and 100")
	}

	dailyPenalty := defaults.DefaultDailyPenalty
	if request.DailyPenalty != nil {
		dailyPenalty = *request.DailyPenalty
	}
	if dailyPenalty.IsNegative() {
		return nil, customError.WrapValidation("daily penalty must not be negative")
	}

	now := time.Now()
	principal := request.PrincipalAmount.Round(2)
	loan := &domain.Loan{
		ID:                 uuid.New(),
		UserID:             ownerID,
		ClientID:           request.ClientID,
		PrincipalAmount:    principal,
		InterestRate:       interestRate,
		DailyPenalty:       dailyPenalty,
		LoanDate:           utils.TruncateToDay(request.LoanDate),
		DueDate:            utils.CalculateDueDate(utils.TruncateToDay(request.LoanDate), defaults.DefaultCycleDays),
		RemainingPrincipal: principal,
		TotalPaid:          decimal.Zero,
		Status:             domain.LoanStatusActive,
		Notes:              request.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetLoan returns a loan with its payment history and a settlement quote
// computed against the current clock.
func (s *LoanService) GetLoan(ctx context.Context, ownerID, loanID uuid.UUID) (*domain.LoanDetailResponse, error) {
	loan, err := s.loanRepo.GetByIDAndOwner(ctx, loanID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.paymentRepo.ListByLoan(ctx, loan.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	client, err := s.clientRepo.GetByIDAndOwner(ctx, loan.ClientID, ownerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	settlement := s.quote(loan, now)

	return &domain.LoanDetailResponse{
		Loan:       loan,
		Client:     client,
		Payments:   payments,
		Settlement: &settlement,
		Status:     loan.DeriveStatus(now, s.config.Business.LateThresholdDays),
	}, nil
}

// GetSettlement returns the settlement quote for a loan as of now.
func (s *LoanService) GetSettlement(ctx context.Context, ownerID, loanID uuid.UUID) (*domain.SettlementDetails, error) {
	loan, err := s.loanRepo.GetByIDAndOwner(ctx, loanID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	settlement := s.quote(loan, time.Now())
	return &settlement, nil
}

// GetLoans lists the owner's loans with optional filters.
func (s *LoanService) GetLoans(ctx context.Context, ownerID uuid.UUID, filter domain.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// GetLoansPendingPayment lists unsettled loans ordered by due date.
func (s *LoanService) GetLoansPendingPayment(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.ListPending(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// UpdateDueDate is the administrative override: a direct field set outside
// the ledger state machine.
func (s *LoanService) UpdateDueDate(ctx context.Context, ownerID, loanID uuid.UUID, dueDate time.Time) error {
	err := s.loanRepo.UpdateDueDate(ctx, loanID, ownerID, utils.TruncateToDay(dueDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapLoanNotFound(loanID.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *LoanService) quote(loan *domain.Loan, now time.Time) domain.SettlementDetails {
	settlement := domain.ComputeSettlement(
		loan.RemainingPrincipal,
		loan.InterestRate,
		loan.DailyPenalty,
		loan.LoanDate,
		loan.DueDate,
		now,
	)
	settlement.TotalPaid = loan.TotalPaid
	return settlement
}

func (s *LoanService) resolveDefaults(ctx context.Context, ownerID uuid.UUID) (*domain.LenderSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.LenderSettings{
				UserID:              ownerID,
				DefaultInterestRate: s.config.GetDefaultInterestRate(),
				DefaultDailyPenalty: s.config.GetDefaultDailyPenalty(),
				DefaultCycleDays:    s.config.Business.DefaultCycleDays,
			}, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return settings, nil
}
