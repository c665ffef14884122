package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ItemStore implements domain.ItemStore.
type ItemStore struct {
	db *DB
}

var _ domain.ItemStore = (*ItemStore)(nil)

func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, business_id, name, sku, description, unit, price, cost, stock,
	track_stock, image_key, image_url, created_at, updated_at`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.BusinessID, &it.Name, &it.SKU, &it.Description, &it.Unit,
		&it.Price, &it.Cost, &it.Stock, &it.TrackStock, &it.ImageKey, &it.ImageURL,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]*domain.Item, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Item, error) {
		return scanItem(row)
	})
}

func (s *ItemStore) CreateItem(ctx context.Context, it *domain.Item) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		INSERT INTO items (business_id, name, sku, description, unit, price, cost, stock,
			track_stock, image_key, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		it.BusinessID, it.Name, it.SKU, it.Description, it.Unit, it.Price, it.Cost, it.Stock,
		it.TrackStock, it.ImageKey, it.ImageURL,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	return mapError(err, "item.create", "item", it.Name)
}

func (s *ItemStore) GetItem(ctx context.Context, businessID, id uuid.UUID) (*domain.Item, error) {
	it, err := scanItem(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		return nil, mapError(err, "item.get", "item", id.String())
	}
	return it, nil
}

// GetItems returns the items of ids that exist; missing ids are skipped.
func (s *ItemStore) GetItems(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.q(ctx).Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE business_id = $1 AND id = ANY($2)`, businessID, ids)
	if err != nil {
		return nil, mapError(err, "item.get_many", "items", businessID.String())
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError(err, "item.get_many", "items", businessID.String())
	}
	return items, nil
}

func (s *ItemStore) ListItems(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.Item, error) {
	params = params.Normalize()
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE business_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY lower(name), id
		LIMIT $3 OFFSET $4`,
		businessID, params.Query, params.Limit, params.Offset)
	if err != nil {
		return nil, mapError(err, "item.list", "items", businessID.String())
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError(err, "item.list", "items", businessID.String())
	}
	return items, nil
}

// SearchItems backs the invoice item picker: name or sku prefix match,
// exact sku first.
func (s *ItemStore) SearchItems(ctx context.Context, businessID uuid.UUID, query string, limit int) ([]*domain.Item, error) {
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE business_id = $1
		  AND (lower(name) LIKE lower($2) || '%' OR lower(sku) LIKE lower($2) || '%')
		ORDER BY (lower(sku) = lower($2)) DESC, lower(name), id
		LIMIT $3`,
		businessID, query, limit)
	if err != nil {
		return nil, mapError(err, "item.search", "items", businessID.String())
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError(err, "item.search", "items", businessID.String())
	}
	return items, nil
}

func (s *ItemStore) UpdateItem(ctx context.Context, it *domain.Item) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		UPDATE items SET name = $3, sku = $4, description = $5, unit = $6, price = $7,
			cost = $8, stock = $9, track_stock = $10, image_key = $11, image_url = $12,
			updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING updated_at`,
		it.BusinessID, it.ID, it.Name, it.SKU, it.Description, it.Unit, it.Price, it.Cost,
		it.Stock, it.TrackStock, it.ImageKey, it.ImageURL,
	).Scan(&it.UpdatedAt)
	return mapError(err, "item.update", "item", it.ID.String())
}

func (s *ItemStore) DeleteItem(ctx context.Context, businessID, id uuid.UUID) error {
	tag, err := s.db.q(ctx).Exec(ctx,
		`DELETE FROM items WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return mapError(err, "item.delete", "item", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("item.delete", "item", id.String())
	}
	return nil
}

// AdjustStock applies delta in a single statement guarded by the
// non-negative condition, so concurrent adjustments cannot overdraw.
func (s *ItemStore) AdjustStock(ctx context.Context, businessID, id uuid.UUID, delta decimal.Decimal) (*domain.Item, error) {
	const op = "item.adjust_stock"

	it, err := scanItem(s.db.q(ctx).QueryRow(ctx, `
		UPDATE items SET stock = stock + $3, updated_at = now()
		WHERE business_id = $1 AND id = $2 AND stock + $3 >= 0
		RETURNING `+itemColumns,
		businessID, id, delta))
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err, op, "item", id.String())
	}

	// no row: either the item is missing or stock would go negative
	if _, err := s.GetItem(ctx, businessID, id); err != nil {
		return nil, err
	}
	return nil, domain.NewValidationError(op, "delta", "Stock cannot go below zero")
}
