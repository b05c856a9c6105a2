package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoretti/loanbook-engine/internal/domain"
)

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.LenderSettings, error) {
	query := `
		SELECT user_id, name, default_interest_rate, default_daily_penalty, default_cycle_days, updated_at
		FROM lender_settings
		WHERE user_id = $1
	`

	var settings domain.LenderSettings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func (r *settingsRepository) GetByUserIDForShare(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*domain.LenderSettings, error) {
	query := `
		SELECT user_id, name, default_interest_rate, default_daily_penalty, default_cycle_days, updated_at
		FROM lender_settings
		WHERE user_id = $1
		FOR SHARE
	`

	var settings domain.LenderSettings
	err := tx.GetContext(ctx, &settings, query, userID)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *domain.LenderSettings) error {
	query := `
		INSERT INTO lender_settings (user_id, name, default_interest_rate, default_daily_penalty, default_cycle_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name,
			default_interest_rate = EXCLUDED.default_interest_rate,
			default_daily_penalty = EXCLUDED.default_daily_penalty,
			default_cycle_days = EXCLUDED.default_cycle_days,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		settings.Name,
		settings.DefaultInterestRate,
		settings.DefaultDailyPenalty,
		settings.DefaultCycleDays,
		time.Now(),
	)

	return err
}
