package postgres

import (
	"context"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClientStore implements domain.ClientStore.
type ClientStore struct {
	db *DB
}

var _ domain.ClientStore = (*ClientStore)(nil)

func NewClientStore(db *DB) *ClientStore {
	return &ClientStore{db: db}
}

const clientColumns = `id, business_id, name, email, phone, tax_id, address, notes, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.TaxID,
		&c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientStore) CreateClient(ctx context.Context, c *domain.Client) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		INSERT INTO clients (business_id, name, email, phone, tax_id, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		c.BusinessID, c.Name, c.Email, c.Phone, c.TaxID, c.Address, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err, "client.create", "client", c.Name)
}

func (s *ClientStore) GetClient(ctx context.Context, businessID, id uuid.UUID) (*domain.Client, error) {
	c, err := scanClient(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		return nil, mapError(err, "client.get", "client", id.String())
	}
	return c, nil
}

// ListClients orders by name. Query matches name, email or tax id.
func (s *ClientStore) ListClients(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.Client, error) {
	params = params.Normalize()
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE business_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%' OR tax_id ILIKE $2 || '%')
		ORDER BY lower(name), id
		LIMIT $3 OFFSET $4`,
		businessID, params.Query, params.Limit, params.Offset)
	if err != nil {
		return nil, mapError(err, "client.list", "clients", businessID.String())
	}

	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Client, error) {
		return scanClient(row)
	})
	if err != nil {
		return nil, mapError(err, "client.list", "clients", businessID.String())
	}
	return clients, nil
}

func (s *ClientStore) UpdateClient(ctx context.Context, c *domain.Client) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		UPDATE clients SET name = $3, email = $4, phone = $5, tax_id = $6, address = $7,
			notes = $8, updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING updated_at`,
		c.BusinessID, c.ID, c.Name, c.Email, c.Phone, c.TaxID, c.Address, c.Notes,
	).Scan(&c.UpdatedAt)
	return mapError(err, "client.update", "client", c.ID.String())
}

func (s *ClientStore) DeleteClient(ctx context.Context, businessID, id uuid.UUID) error {
	tag, err := s.db.q(ctx).Exec(ctx,
		`DELETE FROM clients WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return mapError(err, "client.delete", "client", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("client.delete", "client", id.String())
	}
	return nil
}
