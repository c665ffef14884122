package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Adding it to an invoice copies name, sku,
// price and cost into the line item.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	BusinessID  uuid.UUID       `json:"businessId"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"`
	TrackStock  bool            `json:"trackStock"`
	ImageKey    string          `json:"-"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// LineItem freezes the item at the moment it was added.
func (i *Item) LineItem(quantity decimal.Decimal) LineItem {
	id := i.ID
	return LineItem{
		ItemID:      &id,
		Name:        i.Name,
		SKU:         i.SKU,
		Description: i.Description,
		Quantity:    quantity,
		Price:       i.Price,
		Cost:        i.Cost,
	}
}

// ItemParams is the body of item create and update requests.
type ItemParams struct {
	Name        string          `json:"name" validate:"required,max=200"`
	SKU         string          `json:"sku" validate:"max=64"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" validate:"max=20"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"`
	TrackStock  bool            `json:"trackStock"`
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, businessID, id uuid.UUID) (*Item, error)
	GetItems(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*Item, error)
	ListItems(ctx context.Context, businessID uuid.UUID, params ListParams) ([]*Item, error)
	SearchItems(ctx context.Context, businessID uuid.UUID, query string, limit int) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, businessID, id uuid.UUID) error

	// AdjustStock adds delta to the stock level atomically and fails with
	// EINVALID if the result would be negative.
	AdjustStock(ctx context.Context, businessID, id uuid.UUID, delta decimal.Decimal) (*Item, error)
}

type ItemService interface {
	Create(ctx context.Context, params ItemParams) (*Item, error)
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, params ListParams) ([]*Item, error)
	Search(ctx context.Context, query string, limit int) ([]*Item, error)
	Update(ctx context.Context, id uuid.UUID, params ItemParams) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*Item, error)
	UploadImage(ctx context.Context, id uuid.UUID, upload Upload) (*Item, error)
}
