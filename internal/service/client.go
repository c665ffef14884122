package service

import (
	"context"
	"strings"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
)

type clientService struct {
	clients domain.ClientStore
}

func NewClientService(clients domain.ClientStore) domain.ClientService {
	return &clientService{clients: clients}
}

func applyClientParams(c *domain.Client, p domain.ClientParams) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return domain.NewValidationError("client.save", "name", "Client name is required")
	}
	c.Name = name
	c.Email = strings.ToLower(strings.TrimSpace(p.Email))
	c.Phone = strings.TrimSpace(p.Phone)
	c.TaxID = strings.TrimSpace(p.TaxID)
	c.Address = p.Address
	c.Notes = p.Notes
	return nil
}

func (s *clientService) Create(ctx context.Context, params domain.ClientParams) (*domain.Client, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	c := &domain.Client{BusinessID: biz}
	if err := applyClientParams(c, params); err != nil {
		return nil, err
	}
	if err := s.clients.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.clients.GetClient(ctx, biz, id)
}

func (s *clientService) List(ctx context.Context, params domain.ListParams) ([]*domain.Client, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.clients.ListClients(ctx, biz, params.Normalize())
}

// Update edits the live record. Issued invoices keep their snapshot.
func (s *clientService) Update(ctx context.Context, id uuid.UUID, params domain.ClientParams) (*domain.Client, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.clients.GetClient(ctx, biz, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientParams(c, params); err != nil {
		return nil, err
	}
	if err := s.clients.UpdateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return err
	}
	return s.clients.DeleteClient(ctx, biz, id)
}
