package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LenderSettings holds the per-lender defaults applied at loan creation.
// The defaults are frozen on the loan, except that cycle renewal re-reads
// the current DefaultCycleDays so future cycles can be retuned without
// touching old contracts.
type LenderSettings struct {
	UserID              uuid.UUID       `json:"user_id" db:"user_id"`
	Name                string          `json:"name" db:"name"`
	DefaultInterestRate decimal.Decimal `json:"default_interest_rate" db:"default_interest_rate"`
	DefaultDailyPenalty decimal.Decimal `json:"default_daily_penalty" db:"default_daily_penalty"`
	DefaultCycleDays    int             `json:"default_cycle_days" db:"default_cycle_days"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

type UpdateSettingsRequest struct {
	Name                string          `json:"name,omitempty" validate:"omitempty,min=2"`
	DefaultInterestRate decimal.Decimal `json:"default_interest_rate"`
	DefaultDailyPenalty decimal.Decimal `json:"default_daily_penalty"`
	DefaultCycleDays    int             `json:"default_cycle_days" validate:"required,min=1,max=365"`
}
