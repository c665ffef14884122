package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is a live customer record. Invoices copy it into a ClientSnapshot
// at issue time and never follow later edits.
type Client struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"businessId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	TaxID      string    `json:"taxId"`
	Address    Address   `json:"address"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Snapshot freezes the client's contact details for an invoice.
func (c *Client) Snapshot() ClientSnapshot {
	id := c.ID
	return ClientSnapshot{
		ClientID: &id,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		TaxID:    c.TaxID,
		Address:  c.Address,
	}
}

// ClientParams is the body of client create and update requests.
type ClientParams struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Phone   string  `json:"phone" validate:"max=50"`
	TaxID   string  `json:"taxId" validate:"max=50"`
	Address Address `json:"address"`
	Notes   string  `json:"notes"`
}

// ListParams pages and filters list endpoints.
type ListParams struct {
	Query  string
	Limit  int
	Offset int
}

// Normalize clamps paging to sane bounds.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type ClientStore interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, businessID, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, businessID uuid.UUID, params ListParams) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, businessID, id uuid.UUID) error
}

type ClientService interface {
	Create(ctx context.Context, params ClientParams) (*Client, error)
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, params ListParams) ([]*Client, error)
	Update(ctx context.Context, id uuid.UUID, params ClientParams) (*Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
