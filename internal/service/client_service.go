package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

type ClientService struct {
	clientRepo repository.ClientRepository
	loanRepo   repository.LoanRepository
}

func NewClientService(clientRepo repository.ClientRepository, loanRepo repository.LoanRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		loanRepo:   loanRepo,
	}
}

// CreateClient registers a borrower. CPF is unique per lender.
func (s *ClientService) CreateClient(ctx context.Context, ownerID uuid.UUID, request *domain.CreateClientRequest) (*domain.Client, error) {
	existing, err := s.clientRepo.GetByCPF(ctx, ownerID, request.CPF, nil)
	if err == nil && existing != nil {
		return nil, customError.WrapClientAlreadyExists(request.CPF)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	client := &domain.Client{
		ID:           uuid.New(),
		UserID:       ownerID,
		Name:         request.Name,
		CPF:          request.CPF,
		Phone:        request.Phone,
		City:         request.City,
		Neighborhood: request.Neighborhood,
		BirthDate:    request.BirthDate,
		Notes:        request.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return client, nil
}

// UpdateClient edits a borrower, keeping the per-lender CPF uniqueness.
func (s *ClientService) UpdateClient(ctx context.Context, ownerID, clientID uuid.UUID, request *domain.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.GetByIDAndOwner(ctx, clientID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClientNotFound(clientID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	other, err := s.clientRepo.GetByCPF(ctx, ownerID, request.CPF, &clientID)
	if err == nil && other != nil {
		return nil, customError.WrapClientAlreadyExists(request.CPF)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	client.Name = request.Name
	client.CPF = request.CPF
	client.Phone = request.Phone
	client.City = request.City
	client.Neighborhood = request.Neighborhood
	client.BirthDate = request.BirthDate
	client.Notes = request.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClientNotFound(clientID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return client, nil
}

// DeleteClient soft-deletes a borrower. Blocked while any loan of theirs is
// still open.
func (s *ClientService) DeleteClient(ctx context.Context, ownerID, clientID uuid.UUID) error {
	if _, err := s.clientRepo.GetByIDAndOwner(ctx, clientID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapClientNotFound(clientID.String())
		}
		return customError.WrapDatabaseError(err)
	}

	openLoans, err := s.loanRepo.CountOpenByClient(ctx, clientID)
	if err != nil {
		return err
	}
	if openLoans > 0 {
		return customError.WrapClientHasActiveLoans(clientID.String())
	}

	if err := s.clientRepo.SoftDelete(ctx, clientID, ownerID, time.Now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapClientNotFound(clientID.String())
		}
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// GetClients lists the owner's clients, optionally filtered by a search term
// matched against name, CPF and phone.
func (s *ClientService) GetClients(ctx context.Context, ownerID uuid.UUID, search string) ([]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx, ownerID, search)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return clients, nil
}

// GetClient retrieves a single client scoped to its owner.
func (s *ClientService) GetClient(ctx context.Context, ownerID, clientID uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByIDAndOwner(ctx, clientID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapClientNotFound(clientID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return client, nil
}
