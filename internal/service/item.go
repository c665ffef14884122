package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

type itemService struct {
	items   domain.ItemStore
	storage storage.Storage
	logger  *slog.Logger
}

func NewItemService(items domain.ItemStore, store storage.Storage, logger *slog.Logger) domain.ItemService {
	return &itemService{items: items, storage: store, logger: loggerOrDefault(logger)}
}

func applyItemParams(it *domain.Item, p domain.ItemParams) error {
	var err error

	name := strings.TrimSpace(p.Name)
	if name == "" {
		err = domain.AddFieldError(err, "name", "Item name is required")
	}
	if p.Price.IsNegative() {
		err = domain.AddFieldError(err, "price", "Price cannot be negative")
	}
	if p.Cost.IsNegative() {
		err = domain.AddFieldError(err, "cost", "Cost cannot be negative")
	}
	if p.Stock.IsNegative() {
		err = domain.AddFieldError(err, "stock", "Stock cannot be negative")
	}
	if err != nil {
		return err
	}

	it.Name = name
	it.SKU = strings.TrimSpace(p.SKU)
	it.Description = p.Description
	it.Unit = strings.TrimSpace(p.Unit)
	it.Price = p.Price
	it.Cost = p.Cost
	it.Stock = p.Stock
	it.TrackStock = p.TrackStock
	return nil
}

func (s *itemService) Create(ctx context.Context, params domain.ItemParams) (*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	it := &domain.Item{BusinessID: biz}
	if err := applyItemParams(it, params); err != nil {
		return nil, err
	}
	if err := s.items.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.items.GetItem(ctx, biz, id)
}

func (s *itemService) List(ctx context.Context, params domain.ListParams) ([]*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.items.ListItems(ctx, biz, params.Normalize())
}

// Search backs the invoice item picker. An empty query returns nothing.
func (s *itemService) Search(ctx context.Context, query string, limit int) ([]*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Item{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	// LIKE wildcards in the query are matched literally
	query = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(query)

	return s.items.SearchItems(ctx, biz, query, limit)
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, params domain.ItemParams) (*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	it, err := s.items.GetItem(ctx, biz, id)
	if err != nil {
		return nil, err
	}
	if err := applyItemParams(it, params); err != nil {
		return nil, err
	}
	if err := s.items.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes the catalog entry. Invoices hold frozen copies, so they
// are unaffected. The stored image is removed best effort.
func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return err
	}

	it, err := s.items.GetItem(ctx, biz, id)
	if err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, biz, id); err != nil {
		return err
	}
	if it.ImageKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, it.ImageKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete item image", "key", it.ImageKey, "error", err)
		}
	}
	return nil
}

// AdjustStock adds delta (negative to remove) to the stock level.
func (s *itemService) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return s.items.GetItem(ctx, biz, id)
	}
	return s.items.AdjustStock(ctx, biz, id, delta)
}

func (s *itemService) UploadImage(ctx context.Context, id uuid.UUID, upload domain.Upload) (*domain.Item, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	it, err := s.items.GetItem(ctx, biz, id)
	if err != nil {
		return nil, err
	}

	data, ext, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	key := storage.ItemImageKey(biz, it.ID, ext)
	url, err := replaceObject(ctx, s.storage, s.logger, key, it.ImageKey, upload.ContentType, data)
	if err != nil {
		return nil, err
	}

	it.ImageKey = key
	it.ImageURL = url
	if err := s.items.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
