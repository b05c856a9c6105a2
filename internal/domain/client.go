package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a borrower in the lender's book
type Client struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	CPF          string     `json:"cpf" db:"cpf"`
	Phone        string     `json:"phone" db:"phone"`
	City         string     `json:"city" db:"city"`
	Neighborhood string     `json:"neighborhood" db:"neighborhood"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Notes        string     `json:"notes" db:"notes"`
	LoanCount    int        `json:"loan_count" db:"loan_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// DTOs for requests and responses

type CreateClientRequest struct {
	Name         string     `json:"name" validate:"required,min=2"`
	CPF          string     `json:"cpf" validate:"required"`
	Phone        string     `json:"phone" validate:"required"`
	City         string     `json:"city" validate:"required,min=2"`
	Neighborhood string     `json:"neighborhood" validate:"required,min=2"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name         string     `json:"name" validate:"required,min=2"`
	CPF          string     `json:"cpf" validate:"required"`
	Phone        string     `json:"phone" validate:"required"`
	City         string     `json:"city" validate:"required,min=2"`
	Neighborhood string     `json:"neighborhood" validate:"required,min=2"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}
