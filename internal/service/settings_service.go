package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

type SettingsService struct {
	settingsRepo repository.SettingsRepository
	config       *config.Config
}

func NewSettingsService(settingsRepo repository.SettingsRepository, config *config.Config) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		config:       config,
	}
}

// GetSettings returns the lender's defaults, falling back to the
// application-wide defaults when the lender never saved any.
func (s *SettingsService) GetSettings(ctx context.Context, ownerID uuid.UUID) (*domain.LenderSettings, error) {
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

// UpdateSettings saves the lender's defaults. Changing the cycle length only
// affects future renewals, never already-elapsed cycle history.
func (s *SettingsService) UpdateSettings(ctx context.Context, ownerID uuid.UUID, request *domain.UpdateSettingsRequest) (*domain.LenderSettings, error) {
	if request.DefaultInterestRate.IsNegative() || request.DefaultInterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, customError.WrapValidation("default interest rate must be between 0 and 100")
	}
	if request.DefaultDailyPenalty.IsNegative() {
		return nil, customError.WrapValidation("default daily penalty must not be negative")
	}
	if request.DefaultCycleDays < 1 || request.DefaultCycleDays > 365 {
		return nil, customError.WrapValidation("default cycle days must be between 1 and 365")
	}

	settings := &domain.LenderSettings{
		UserID:              ownerID,
		Name:                request.Name,
		DefaultInterestRate: request.DefaultInterestRate,
		DefaultDailyPenalty: request.DefaultDailyPenalty,
		DefaultCycleDays:    request.DefaultCycleDays,
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return settings, nil
}
