package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

func newLoanServiceForTest() (*LoanService, *MockLoanRepository, *MockPaymentRepository, *MockClientRepository, *MockSettingsRepository) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)
	clientRepo := new(MockClientRepository)
	settingsRepo := new(MockSettingsRepository)
	svc := NewLoanService(loanRepo, paymentRepo, clientRepo, settingsRepo, testConfig())
	return svc, loanRepo, paymentRepo, clientRepo, settingsRepo
}

func TestCreateLoan_WithLenderDefaults(t *testing.T) {
	svc, loanRepo, _, clientRepo, settingsRepo := newLoanServiceForTest()

	ownerID := uuid.New()
	clientID := uuid.New()
	loanDate := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	clientRepo.On("GetByIDAndOwner", mock.Anything, clientID, ownerID).Return(&domain.Client{ID: clientID, UserID: ownerID}, nil)
	settingsRepo.On("GetByUserID", mock.Anything, ownerID).Return(&domain.LenderSettings{
		UserID:              ownerID,
		DefaultInterestRate: decimal.NewFromInt(25),
		DefaultDailyPenalty: decimal.NewFromInt(40),
		DefaultCycleDays:    30,
	}, nil)
	loanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)

	loan, err := svc.CreateLoan(context.Background(), ownerID, &domain.CreateLoanRequest{
		ClientID:        clientID,
		PrincipalAmount: decimal.NewFromInt(1000),
		LoanDate:        loanDate,
	})
	require.NoError(t, err)

	assert.True(t, loan.InterestRate.Equal(decimal.NewFromInt(25)))
	assert.True(t, loan.DailyPenalty.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, loanDate, loan.LoanDate)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), loan.DueDate)
	assert.True(t, loan.RemainingPrincipal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, loan.TotalPaid.IsZero())
	assert.Equal(t, domain.LoanStatusActive, loan.Status)

	loanRepo.AssertExpectations(t)
}

func TestCreateLoan_ExplicitTermsOverrideDefaults(t *testing.T) {
	svc, loanRepo, _, clientRepo, settingsRepo := newLoanServiceForTest()

	ownerID := uuid.New()
	clientID := uuid.New()
	rate := decimal.NewFromInt(20)
	penalty := decimal.NewFromInt(10)

	clientRepo.On("GetByIDAndOwner", mock.Anything, clientID, ownerID).Return(&domain.Client{ID: clientID}, nil)
	settingsRepo.On("GetByUserID", mock.Anything, ownerID).Return(nil, sql.ErrNoRows)
	loanRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	loan, err := svc.CreateLoan(context.Background(), ownerID, &domain.CreateLoanRequest{
		ClientID:        clientID,
		PrincipalAmount: decimal.NewFromInt(500),
		LoanDate:        time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		InterestRate:    &rate,
		DailyPenalty:    &penalty,
	})
	require.NoError(t, err)

	assert.True(t, loan.InterestRate.Equal(rate))
	assert.True(t, loan.DailyPenalty.Equal(penalty))
}

func TestCreateLoan_UnknownClient(t *testing.T) {
	svc, loanRepo, _, clientRepo, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	clientID := uuid.New()
	clientRepo.On("GetByIDAndOwner", mock.Anything, clientID, ownerID).Return(nil, sql.ErrNoRows)

	_, err := svc.CreateLoan(context.Background(), ownerID, &domain.CreateLoanRequest{
		ClientID:        clientID,
		PrincipalAmount: decimal.NewFromInt(1000),
		LoanDate:        time.Now(),
	})

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeClientNotFound, bizErr.Code)
	loanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLoan_InvalidTerms(t *testing.T) {
	svc, _, _, clientRepo, settingsRepo := newLoanServiceForTest()

	ownerID := uuid.New()
	clientID := uuid.New()
	clientRepo.On("GetByIDAndOwner", mock.Anything, clientID, ownerID).Return(&domain.Client{ID: clientID}, nil)
	settingsRepo.On("GetByUserID", mock.Anything, ownerID).Return(nil, sql.ErrNoRows)

	tooHigh := decimal.NewFromInt(150)
	_, err := svc.CreateLoan(context.Background(), ownerID, &domain.CreateLoanRequest{
		ClientID:        clientID,
		PrincipalAmount: decimal.NewFromInt(1000),
		LoanDate:        time.Now(),
		InterestRate:    &tooHigh,
	})

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)

	negative := decimal.NewFromInt(-1)
	_, err = svc.CreateLoan(context.Background(), ownerID, &domain.CreateLoanRequest{
		ClientID:        clientID,
		PrincipalAmount: decimal.NewFromInt(1000),
		LoanDate:        time.Now(),
		DailyPenalty:    &negative,
	})
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)
}

func TestCreateLoan_NonPositivePrincipal(t *testing.T) {
	svc, _, _, clientRepo, _ := newLoanServiceForTest()

	_, err := svc.CreateLoan(context.Background(), uuid.New(), &domain.CreateLoanRequest{
		ClientID:        uuid.New(),
		PrincipalAmount: decimal.Zero,
		LoanDate:        time.Now(),
	})

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeValidation, bizErr.Code)
	clientRepo.AssertNotCalled(t, "GetByIDAndOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetLoan_IncludesQuoteAndHistory(t *testing.T) {
	svc, loanRepo, paymentRepo, clientRepo, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	loan := testLoan(ownerID)
	loan.TotalPaid = decimal.NewFromInt(300)
	client := &domain.Client{ID: loan.ClientID, UserID: ownerID, Name: "Maria Souza"}
	payments := []*domain.Payment{{ID: uuid.New(), LoanID: loan.ID}}

	loanRepo.On("GetByIDAndOwner", mock.Anything, loan.ID, ownerID).Return(loan, nil)
	paymentRepo.On("ListByLoan", mock.Anything, loan.ID).Return(payments, nil)
	clientRepo.On("GetByIDAndOwner", mock.Anything, loan.ClientID, ownerID).Return(client, nil)

	detail, err := svc.GetLoan(context.Background(), ownerID, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, loan, detail.Loan)
	assert.Equal(t, client, detail.Client)
	assert.Equal(t, payments, detail.Payments)
	require.NotNil(t, detail.Settlement)
	assert.True(t, detail.Settlement.TotalPaid.Equal(decimal.NewFromInt(300)))
	assert.NotEmpty(t, detail.Status)
}

func TestGetLoan_NotFound(t *testing.T) {
	svc, loanRepo, _, _, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	loanID := uuid.New()
	loanRepo.On("GetByIDAndOwner", mock.Anything, loanID, ownerID).Return(nil, sql.ErrNoRows)

	_, err := svc.GetLoan(context.Background(), ownerID, loanID)

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeLoanNotFound, bizErr.Code)
}

func TestGetSettlement_QuotesAgainstRemainingPrincipal(t *testing.T) {
	svc, loanRepo, _, _, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	loan := testLoan(ownerID)
	// Due date in the future keeps the penalty out of the quote regardless
	// of when the test runs.
	now := time.Now()
	loan.LoanDate = now.AddDate(0, 0, -10)
	loan.DueDate = now.AddDate(0, 0, 20)

	loanRepo.On("GetByIDAndOwner", mock.Anything, loan.ID, ownerID).Return(loan, nil)

	settlement, err := svc.GetSettlement(context.Background(), ownerID, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, settlement.DaysElapsed)
	assert.Equal(t, 0, settlement.DaysOverdue)
	assert.True(t, settlement.Penalty.IsZero())
	// 1000 * 30% * 10/30
	assert.True(t, settlement.Interest.Equal(decimal.NewFromInt(100)),
		"expected 100, got %s", settlement.Interest)
}

func TestUpdateDueDate(t *testing.T) {
	svc, loanRepo, _, _, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	loanID := uuid.New()
	newDue := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)

	loanRepo.On("UpdateDueDate", mock.Anything, loanID, ownerID, newDue).Return(nil)

	require.NoError(t, svc.UpdateDueDate(context.Background(), ownerID, loanID, newDue))
	loanRepo.AssertExpectations(t)
}

func TestUpdateDueDate_NotFound(t *testing.T) {
	svc, loanRepo, _, _, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	loanID := uuid.New()

	loanRepo.On("UpdateDueDate", mock.Anything, loanID, ownerID, mock.Anything).Return(sql.ErrNoRows)

	err := svc.UpdateDueDate(context.Background(), ownerID, loanID, time.Now())

	var bizErr *customError.BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeLoanNotFound, bizErr.Code)
}

func TestGetLoansPendingPayment(t *testing.T) {
	svc, loanRepo, _, _, _ := newLoanServiceForTest()

	ownerID := uuid.New()
	expected := []*domain.Loan{testLoan(ownerID)}
	loanRepo.On("ListPending", mock.Anything, ownerID).Return(expected, nil)

	loans, err := svc.GetLoansPendingPayment(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, expected, loans)
}
