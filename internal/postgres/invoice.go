package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceStore implements domain.InvoiceStore.
type InvoiceStore struct {
	db *DB
}

var _ domain.InvoiceStore = (*InvoiceStore)(nil)

func NewInvoiceStore(db *DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

const invoiceColumns = `id, business_id, number, client, items, currency, issue_date, due_date,
	paid_at, is_paid, is_deleted, delivery_status, notes, tax_rate, discount_value, discount_type,
	delivery_fee, sub_total, total_discount, total_tax, grand_total, created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.BusinessID, &inv.Number, &inv.Client, &inv.Items,
		&inv.Currency, &inv.IssueDate, &inv.DueDate, &inv.PaidAt, &inv.IsPaid, &inv.IsDeleted,
		&inv.DeliveryStatus, &inv.Notes, &inv.TaxRate, &inv.Discount.Value, &inv.Discount.Type,
		&inv.DeliveryFee, &inv.Totals.SubTotal, &inv.Totals.TotalDiscount, &inv.Totals.TotalTax,
		&inv.Totals.GrandTotal, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Totals.DeliveryFee = inv.DeliveryFee
	if inv.Items == nil {
		inv.Items = []domain.LineItem{}
	}
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*domain.Invoice, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Invoice, error) {
		return scanInvoice(row)
	})
}

// CreateInvoice takes the next number from the business row. The UPDATE
// holds the row lock until the surrounding transaction ends, so two
// concurrent creates cannot get the same number.
func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	const op = "invoice.create"

	return s.db.WithinTx(ctx, func(ctx context.Context) error {
		q := s.db.q(ctx)

		err := q.QueryRow(ctx, `
			UPDATE businesses SET next_invoice_number = next_invoice_number + 1
			WHERE id = $1
			RETURNING next_invoice_number - 1`, inv.BusinessID,
		).Scan(&inv.Number)
		if err != nil {
			return mapError(err, op, "business", inv.BusinessID.String())
		}

		err = q.QueryRow(ctx, `
			INSERT INTO invoices (business_id, number, client, items, currency, issue_date,
				due_date, paid_at, is_paid, is_deleted, delivery_status, notes, tax_rate,
				discount_value, discount_type, delivery_fee, sub_total, total_discount,
				total_tax, grand_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20)
			RETURNING id, created_at, updated_at`,
			inv.BusinessID, inv.Number, inv.Client, inv.Items, inv.Currency, inv.IssueDate,
			inv.DueDate, inv.PaidAt, inv.IsPaid, inv.IsDeleted, inv.DeliveryStatus, inv.Notes,
			inv.TaxRate, inv.Discount.Value, inv.Discount.Type, inv.DeliveryFee,
			inv.Totals.SubTotal, inv.Totals.TotalDiscount, inv.Totals.TotalTax,
			inv.Totals.GrandTotal,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		return mapError(err, op, "invoice", inv.DisplayNumber())
	})
}

func (s *InvoiceStore) GetInvoice(ctx context.Context, businessID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		return nil, mapError(err, "invoice.get", "invoice", id.String())
	}
	return inv, nil
}

// GetInvoiceByID loads an invoice without a business scope, for the
// public viewer.
func (s *InvoiceStore) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "invoice.get_public", "invoice", id.String())
	}
	return inv, nil
}

func (s *InvoiceStore) GetInvoices(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE business_id = $1 AND id = ANY($2)
		ORDER BY number`, businessID, ids)
	if err != nil {
		return nil, mapError(err, "invoice.get_many", "invoices", businessID.String())
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, mapError(err, "invoice.get_many", "invoices", businessID.String())
	}
	return invoices, nil
}

func (s *InvoiceStore) GetInvoiceForUpdate(ctx context.Context, businessID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.q(ctx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE business_id = $1 AND id = $2 FOR UPDATE`,
		businessID, id))
	if err != nil {
		return nil, mapError(err, "invoice.lock", "invoice", id.String())
	}
	return inv, nil
}

func (s *InvoiceStore) GetInvoicesForUpdate(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*domain.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE business_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`, businessID, ids)
	if err != nil {
		return nil, mapError(err, "invoice.lock_many", "invoices", businessID.String())
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, mapError(err, "invoice.lock_many", "invoices", businessID.String())
	}
	return invoices, nil
}

// invoiceWhere builds the WHERE clause for a filter. Arguments start at $1
// with the business id.
func invoiceWhere(businessID uuid.UUID, f domain.InvoiceFilter) (string, []any) {
	args := []any{businessID}
	conds := []string{"business_id = $1"}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	deleted := false
	if f.Deleted != nil {
		deleted = *f.Deleted
	}
	add("is_deleted = $%d", deleted)

	if f.IsPaid != nil {
		add("is_paid = $%d", *f.IsPaid)
	}
	if f.DeliveryStatus != "" {
		add("delivery_status = $%d", f.DeliveryStatus)
	}
	if name := strings.TrimSpace(f.ClientName); name != "" {
		add("client->>'name' ILIKE '%%' || $%d || '%%'", name)
	}
	if f.IssuedFrom != nil {
		add("issue_date >= $%d", *f.IssuedFrom)
	}
	if f.IssuedTo != nil {
		add("issue_date <= $%d", *f.IssuedTo)
	}

	return strings.Join(conds, " AND "), args
}

func (s *InvoiceStore) ListInvoices(ctx context.Context, businessID uuid.UUID, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	where, args := invoiceWhere(businessID, filter)
	limit, offset := clampPage(filter.Limit, filter.Offset, 50, 500)
	args = append(args, limit, offset)

	rows, err := s.db.q(ctx).Query(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE %s
		ORDER BY issue_date DESC, number DESC
		LIMIT $%d OFFSET $%d`, invoiceColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, mapError(err, "invoice.list", "invoices", businessID.String())
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, mapError(err, "invoice.list", "invoices", businessID.String())
	}
	return invoices, nil
}

func (s *InvoiceStore) ListInvoicesIssued(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*domain.Invoice, error) {
	rows, err := s.db.q(ctx).Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE business_id = $1 AND issue_date >= $2 AND issue_date <= $3
		ORDER BY issue_date, number`, businessID, from, to)
	if err != nil {
		return nil, mapError(err, "invoice.list_issued", "invoices", businessID.String())
	}
	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, mapError(err, "invoice.list_issued", "invoices", businessID.String())
	}
	return invoices, nil
}

// UpdateInvoice writes every mutable column. The number is never changed.
func (s *InvoiceStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	err := s.db.q(ctx).QueryRow(ctx, `
		UPDATE invoices SET client = $3, items = $4, currency = $5, issue_date = $6,
			due_date = $7, paid_at = $8, is_paid = $9, is_deleted = $10, delivery_status = $11,
			notes = $12, tax_rate = $13, discount_value = $14, discount_type = $15,
			delivery_fee = $16, sub_total = $17, total_discount = $18, total_tax = $19,
			grand_total = $20, updated_at = now()
		WHERE business_id = $1 AND id = $2
		RETURNING updated_at`,
		inv.BusinessID, inv.ID, inv.Client, inv.Items, inv.Currency, inv.IssueDate,
		inv.DueDate, inv.PaidAt, inv.IsPaid, inv.IsDeleted, inv.DeliveryStatus, inv.Notes,
		inv.TaxRate, inv.Discount.Value, inv.Discount.Type, inv.DeliveryFee,
		inv.Totals.SubTotal, inv.Totals.TotalDiscount, inv.Totals.TotalTax, inv.Totals.GrandTotal,
	).Scan(&inv.UpdatedAt)
	return mapError(err, "invoice.update", "invoice", inv.ID.String())
}

// UpdateInvoiceContent leaves is_paid, paid_at, is_deleted and
// delivery_status alone, and only touches rows that are still editable.
func (s *InvoiceStore) UpdateInvoiceContent(ctx context.Context, inv *domain.Invoice) error {
	const op = "invoice.update_content"

	q := s.db.q(ctx)
	err := q.QueryRow(ctx, `
		UPDATE invoices SET client = $3, items = $4, currency = $5, issue_date = $6,
			due_date = $7, notes = $8, tax_rate = $9, discount_value = $10, discount_type = $11,
			delivery_fee = $12, sub_total = $13, total_discount = $14, total_tax = $15,
			grand_total = $16, updated_at = now()
		WHERE business_id = $1 AND id = $2 AND NOT is_paid AND NOT is_deleted
		RETURNING updated_at`,
		inv.BusinessID, inv.ID, inv.Client, inv.Items, inv.Currency, inv.IssueDate,
		inv.DueDate, inv.Notes, inv.TaxRate, inv.Discount.Value, inv.Discount.Type,
		inv.DeliveryFee, inv.Totals.SubTotal, inv.Totals.TotalDiscount, inv.Totals.TotalTax,
		inv.Totals.GrandTotal,
	).Scan(&inv.UpdatedAt)
	if !errors.Is(err, pgx.ErrNoRows) {
		return mapError(err, op, "invoice", inv.ID.String())
	}

	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE business_id = $1 AND id = $2)`,
		inv.BusinessID, inv.ID,
	).Scan(&exists); err != nil {
		return mapError(err, op, "invoice", inv.ID.String())
	}
	if exists {
		return domain.ErrInvoiceLocked
	}
	return domain.NotFound(op, "invoice", inv.ID.String())
}
