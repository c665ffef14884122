package postgres

import (
	"context"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DeliveryStore implements domain.DeliveryStore. The status_counts CHECK
// constraint rejects any write whose counts do not sum to the number of
// member invoices.
type DeliveryStore struct {
	db *DB
}

var _ domain.DeliveryStore = (*DeliveryStore)(nil)

func NewDeliveryStore(db *DB) *DeliveryStore {
	return &DeliveryStore{db: db}
}

const deliveryColumns = `id, business_id, name, invoice_ids, status_counts, notes, created_at, updated_at`

func scanDelivery(row pgx.Row) (*domain.DeliveryNote, error) {
	var d domain.DeliveryNote
	if err := row.Scan(&d.ID, &d.BusinessID, &d.Name, &d.InvoiceIDs, &d.StatusCounts,
		&d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if d.InvoiceIDs == nil {
		d.InvoiceIDs = []uuid.UUID{}
	}
	return &d, nil
}

func collectDeliveries(rows pgx.Rows) ([]*domain.DeliveryNote, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.DeliveryNote, error) {
		return scanDelivery(row)
	})
}

func (s *DeliveryStore) CreateDelivery(ctx context.Context, d *domain.DeliveryNote) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		INSERT INTO delivery_notes (business_id, name, invoice_ids, status_counts, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		d.BusinessID, d.Name, d.InvoiceIDs, d.StatusCounts, d.Notes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return mapError(err, "delivery.create", "delivery note", d.Name)
}

func (s *DeliveryStore) GetDelivery(ctx context.Context, businessID, id uuid.UUID) (*domain.DeliveryNote, error) {
	d, err := scanDelivery(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM delivery_notes WHERE business_id = $1 AND id = $2`,
		businessID, id))
	if err != nil {
		return nil, mapError(err, "delivery.get", "delivery note", id.String())
	}
	return d, nil
}

func (s *DeliveryStore) GetDeliveryForUpdate(ctx context.Context, businessID, id uuid.UUID) (*domain.DeliveryNote, error) {
	d, err := scanDelivery(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM delivery_notes WHERE business_id = $1 AND id = $2 FOR UPDATE`,
		businessID, id))
	if err != nil {
		return nil, mapError(err, "delivery.lock", "delivery note", id.String())
	}
	return d, nil
}

func (s *DeliveryStore) GetDeliveryByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryNote, error) {
	d, err := scanDelivery(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM delivery_notes WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "delivery.get_public", "delivery note", id.String())
	}
	return d, nil
}

func (s *DeliveryStore) ListDeliveries(ctx context.Context, businessID uuid.UUID, params domain.ListParams) ([]*domain.DeliveryNote, error) {
	params = params.Normalize()
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+deliveryColumns+` FROM delivery_notes
		WHERE business_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`,
		businessID, params.Query, params.Limit, params.Offset)
	if err != nil {
		return nil, mapError(err, "delivery.list", "delivery notes", businessID.String())
	}
	notes, err := collectDeliveries(rows)
	if err != nil {
		return nil, mapError(err, "delivery.list", "delivery notes", businessID.String())
	}
	return notes, nil
}

const withInvoiceQuery = `SELECT ` + deliveryColumns + ` FROM delivery_notes
	WHERE business_id = $1 AND invoice_ids @> ARRAY[$2::uuid]
	ORDER BY id`

// ListDeliveriesWithInvoice returns the notes whose member list contains
// invoiceID, without locking them.
func (s *DeliveryStore) ListDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*domain.DeliveryNote, error) {
	return s.withInvoice(ctx, "delivery.list_with_invoice", withInvoiceQuery, businessID, invoiceID)
}

// LockDeliveriesWithInvoice is ListDeliveriesWithInvoice under FOR UPDATE.
// A caller blocked here reads member invoices only after the holder
// commits, so its recount sees their committed statuses.
func (s *DeliveryStore) LockDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*domain.DeliveryNote, error) {
	return s.withInvoice(ctx, "delivery.lock_with_invoice", withInvoiceQuery+" FOR UPDATE", businessID, invoiceID)
}

func (s *DeliveryStore) withInvoice(ctx context.Context, op, query string, businessID, invoiceID uuid.UUID) ([]*domain.DeliveryNote, error) {
	rows, err := s.db.q(ctx).Query(ctx, query, businessID, invoiceID)
	if err != nil {
		return nil, mapError(err, op, "delivery notes", invoiceID.String())
	}
	notes, err := collectDeliveries(rows)
	if err != nil {
		return nil, mapError(err, op, "delivery notes", invoiceID.String())
	}
	return notes, nil
}

func (s *DeliveryStore) UpdateDelivery(ctx context.Context, d *domain.DeliveryNote) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		UPDATE delivery_notes SET name = $3, invoice_ids = $4, status_counts = $5, notes = $6,
			updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING updated_at`,
		d.BusinessID, d.ID, d.Name, d.InvoiceIDs, d.StatusCounts, d.Notes,
	).Scan(&d.UpdatedAt)
	return mapError(err, "delivery.update", "delivery note", d.ID.String())
}

func (s *DeliveryStore) DeleteDelivery(ctx context.Context, businessID, id uuid.UUID) error {
	tag, err := s.db.q(ctx).Exec(ctx,
		`DELETE FROM delivery_notes WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return mapError(err, "delivery.delete", "delivery note", id.String())
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("delivery.delete", "delivery note", id.String())
	}
	return nil
}
