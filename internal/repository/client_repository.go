package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoretti/loanbook-engine/internal/domain"
)

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, cpf, phone, city, neighborhood, birth_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.CPF,
		client.Phone,
		client.City,
		client.Neighborhood,
		client.BirthDate,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	)

	return err
}

func (r *clientRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, user_id, name, cpf, phone, city, neighborhood, birth_date, notes,
			0 AS loan_count, created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, id, ownerID)
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) GetByCPF(ctx context.Context, ownerID uuid.UUID, cpf string, excludeID *uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, user_id, name, cpf, phone, city, neighborhood, birth_date, notes,
			0 AS loan_count, created_at, updated_at, deleted_at
		FROM clients
		WHERE user_id = $1 AND cpf = $2 AND deleted_at IS NULL
	`
	args := []interface{}{ownerID, cpf}

	if excludeID != nil {
		args = append(args, *excludeID)
		query += ` AND id <> $3`
	}

	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, args...)
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $3, cpf = $4, phone = $5, city = $6, neighborhood = $7,
			birth_date = $8, notes = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.CPF,
		client.Phone,
		client.City,
		client.Neighborhood,
		client.BirthDate,
		client.Notes,
		time.Now(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *clientRepository) SoftDelete(ctx context.Context, id, ownerID uuid.UUID, now time.Time) error {
	query := `
		UPDATE clients
		SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, now)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *clientRepository) List(ctx context.Context, ownerID uuid.UUID, search string) ([]*domain.Client, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.cpf, c.phone, c.city, c.neighborhood, c.birth_date, c.notes,
			COUNT(l.id) AS loan_count, c.created_at, c.updated_at, c.deleted_at
		FROM clients c
		LEFT JOIN loans l ON l.client_id = c.id AND l.deleted_at IS NULL
		WHERE c.user_id = $1 AND c.deleted_at IS NULL
	`
	args := []interface{}{ownerID}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND (c.name ILIKE $2 OR c.cpf LIKE $2 OR c.phone LIKE $2)`
	}
	query += `
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	clients := []*domain.Client{}
	err := r.db.SelectContext(ctx, &clients, query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return clients, nil
}
