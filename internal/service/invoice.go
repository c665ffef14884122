package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/telemetry"
	"github.com/dukerupert/fakturo/internal/totals"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type invoiceService struct {
	tx      domain.Transactor
	stores  Stores
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewInvoiceService creates the invoice lifecycle service.
func NewInvoiceService(tx domain.Transactor, stores Stores, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.InvoiceService {
	return &invoiceService{
		tx:      tx,
		stores:  stores,
		metrics: metrics,
		logger:  loggerOrDefault(logger),
		now:     time.Now,
	}
}

// buildLines resolves catalog items into frozen line copies. Explicit
// name, price and cost on the input override the catalog values.
func (s *invoiceService) buildLines(ctx context.Context, biz uuid.UUID, inputs []domain.LineInput) ([]domain.LineItem, error) {
	const op = "invoice.items"

	var ids []uuid.UUID
	for _, in := range inputs {
		if in.ItemID != nil {
			ids = append(ids, *in.ItemID)
		}
	}

	catalog := map[uuid.UUID]*domain.Item{}
	if len(ids) > 0 {
		items, err := s.stores.Items.GetItems(ctx, biz, ids)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			catalog[it.ID] = it
		}
	}

	fields := map[string]string{}
	lines := make([]domain.LineItem, 0, len(inputs))
	for i, in := range inputs {
		var line domain.LineItem

		if in.ItemID != nil {
			it, ok := catalog[*in.ItemID]
			if !ok {
				fields[fmt.Sprintf("items[%d].itemId", i)] = "Item not found"
				continue
			}
			line = it.LineItem(in.Quantity)
		} else {
			line = domain.LineItem{Quantity: in.Quantity}
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			line.Name = name
		}
		if sku := strings.TrimSpace(in.SKU); sku != "" {
			line.SKU = sku
		}
		if in.Description != "" {
			line.Description = in.Description
		}
		if in.Price != nil {
			line.Price = *in.Price
		}
		if in.Cost != nil {
			line.Cost = *in.Cost
		}

		if line.Name == "" {
			fields[fmt.Sprintf("items[%d].name", i)] = "Item name is required"
			continue
		}
		if line.Cost.IsNegative() {
			fields[fmt.Sprintf("items[%d].cost", i)] = "Cost cannot be negative"
			continue
		}
		lines = append(lines, line)
	}

	if len(fields) > 0 {
		return nil, &domain.ValidationError{Op: op, Fields: fields}
	}
	return lines, nil
}

// resolveClient picks the snapshot for an invoice: a catalog client id
// wins over an inline snapshot.
func (s *invoiceService) resolveClient(ctx context.Context, biz uuid.UUID, params domain.InvoiceParams) (*domain.ClientSnapshot, error) {
	if params.ClientID != nil {
		c, err := s.stores.Clients.GetClient(ctx, biz, *params.ClientID)
		if err != nil {
			return nil, err
		}
		snap := c.Snapshot()
		return &snap, nil
	}
	if params.Client != nil {
		snap := *params.Client
		snap.ClientID = nil
		return &snap, nil
	}
	return nil, nil
}

func normalizeDiscount(d totals.Discount) totals.Discount {
	if d.Type == "" {
		d.Type = totals.DiscountFixed
	}
	return d
}

// draft builds a new, not yet persisted invoice from params and the
// business defaults.
func (s *invoiceService) draft(ctx context.Context, op string, biz *domain.Business, params domain.InvoiceParams) (*domain.Invoice, error) {
	if len(params.Items) == 0 {
		return nil, noItems(op)
	}

	lines, err := s.buildLines(ctx, biz.ID, params.Items)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{
		BusinessID:     biz.ID,
		Items:          lines,
		Currency:       biz.Currency,
		IssueDate:      s.now().UTC(),
		DeliveryStatus: domain.DeliveryPending,
		TaxRate:        biz.InvoiceSettings.DefaultTaxRate,
		Discount:       totals.Discount{Value: decimal.Zero, Type: totals.DiscountFixed},
		DeliveryFee:    decimal.Zero,
	}

	client, err := s.resolveClient(ctx, biz.ID, params)
	if err != nil {
		return nil, err
	}
	if client != nil {
		inv.Client = *client
	}

	if c := trimmed(params.Currency); c != "" {
		inv.Currency = strings.ToUpper(c)
	}
	if params.IssueDate != nil {
		inv.IssueDate = params.IssueDate.UTC()
	}
	switch {
	case params.DueDate != nil:
		due := params.DueDate.UTC()
		inv.DueDate = &due
	case biz.InvoiceSettings.DefaultDueDays > 0:
		due := inv.IssueDate.AddDate(0, 0, biz.InvoiceSettings.DefaultDueDays)
		inv.DueDate = &due
	}
	if params.Notes != nil {
		inv.Notes = *params.Notes
	}
	if params.TaxRate != nil {
		inv.TaxRate = *params.TaxRate
	}
	if params.Discount != nil {
		inv.Discount = normalizeDiscount(*params.Discount)
	}
	if params.DeliveryFee != nil {
		inv.DeliveryFee = *params.DeliveryFee
	}

	if err := s.check(op, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// check enforces the write-path rules and recomputes totals.
func (s *invoiceService) check(op string, inv *domain.Invoice) error {
	if strings.TrimSpace(inv.Client.Name) == "" {
		return domain.NewValidationError(op, "client.name", "Client name is required")
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return domain.NewValidationError(op, "dueDate", "Due date cannot be before the issue date")
	}
	if err := inv.Recalculate(); err != nil {
		return calculationError(op, err)
	}
	return nil
}

func noItems(op string) error {
	return domain.WrapError(domain.ErrInvoiceNoItems, domain.EINVALID, op, domain.ErrInvoiceNoItems.Message)
}

func (s *invoiceService) business(ctx context.Context) (*domain.Business, error) {
	id, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.stores.Businesses.GetBusiness(ctx, id)
}

func (s *invoiceService) Create(ctx context.Context, params domain.InvoiceParams) (*domain.Invoice, error) {
	biz, err := s.business(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.draft(ctx, "invoice.create", biz, params)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Invoices.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	grand, _ := inv.Totals.GrandTotal.Float64()
	s.metrics.InvoiceCreated(biz.ID.String(), inv.Currency, grand)
	s.logger.InfoContext(ctx, "invoice created",
		"invoice_id", inv.ID,
		"number", inv.DisplayNumber(),
		"grand_total", inv.Totals.GrandTotal.String())
	return inv, nil
}

// Preview computes totals for an unsaved invoice. Nothing is persisted,
// the client is not required and the write-path checks are skipped.
func (s *invoiceService) Preview(ctx context.Context, params domain.InvoiceParams) (*totals.Totals, error) {
	const op = "invoice.preview"

	biz, err := s.business(ctx)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, biz.ID, params.Items)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{
		Items:       lines,
		TaxRate:     biz.InvoiceSettings.DefaultTaxRate,
		Discount:    totals.Discount{Type: totals.DiscountFixed},
		DeliveryFee: decimal.Zero,
	}
	if params.TaxRate != nil {
		inv.TaxRate = *params.TaxRate
	}
	if params.Discount != nil {
		inv.Discount = normalizeDiscount(*params.Discount)
	}
	if params.DeliveryFee != nil {
		inv.DeliveryFee = *params.DeliveryFee
	}

	// Unvalidated: an oversized discount previews as typed.
	t, err := totals.Calculate(inv.TotalsInput())
	if err != nil {
		return nil, calculationError(op, err)
	}
	return &t, nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.stores.Invoices.GetInvoice(ctx, biz, id)
}

func (s *invoiceService) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	if filter.DeliveryStatus != "" && !filter.DeliveryStatus.Valid() {
		return nil, ErrInvalidDeliveryStat
	}
	return s.stores.Invoices.ListInvoices(ctx, biz, filter)
}

// locked loads the invoice under a row lock. Callers run inside
// WithinTx so the lock lasts until their write commits.
func (s *invoiceService) locked(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.stores.Invoices.GetInvoiceForUpdate(ctx, biz, id)
}

// editable locks an invoice that may still be changed.
func (s *invoiceService) editable(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.locked(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.Editable() {
		return nil, domain.ErrInvoiceLocked
	}
	return inv, nil
}

// Update applies the non-nil fields of params to an unpaid, not voided
// invoice and recomputes its totals.
func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, params domain.InvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.update"

	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.editable(ctx, id)
		if err != nil {
			return err
		}
		return s.apply(ctx, op, inv, params)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) apply(ctx context.Context, op string, inv *domain.Invoice, params domain.InvoiceParams) error {
	if params.Items != nil {
		if len(params.Items) == 0 {
			return noItems(op)
		}
		lines, err := s.buildLines(ctx, inv.BusinessID, params.Items)
		if err != nil {
			return err
		}
		inv.Items = lines
	}

	client, err := s.resolveClient(ctx, inv.BusinessID, params)
	if err != nil {
		return err
	}
	if client != nil {
		inv.Client = *client
	}

	if c := trimmed(params.Currency); c != "" {
		inv.Currency = strings.ToUpper(c)
	}
	if params.IssueDate != nil {
		inv.IssueDate = params.IssueDate.UTC()
	}
	if params.DueDate != nil {
		due := params.DueDate.UTC()
		inv.DueDate = &due
	}
	if params.Notes != nil {
		inv.Notes = *params.Notes
	}
	if params.TaxRate != nil {
		inv.TaxRate = *params.TaxRate
	}
	if params.Discount != nil {
		inv.Discount = normalizeDiscount(*params.Discount)
	}
	if params.DeliveryFee != nil {
		inv.DeliveryFee = *params.DeliveryFee
	}

	if err := s.check(op, inv); err != nil {
		return err
	}
	return s.stores.Invoices.UpdateInvoiceContent(ctx, inv)
}

// UpdateClient replaces the frozen client snapshot.
func (s *invoiceService) UpdateClient(ctx context.Context, id uuid.UUID, client domain.ClientSnapshot) (*domain.Invoice, error) {
	const op = "invoice.update_client"

	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))

	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.editable(ctx, id)
		if err != nil {
			return err
		}
		inv.Client = client
		if err := s.check(op, inv); err != nil {
			return err
		}
		return s.stores.Invoices.UpdateInvoiceContent(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// SetPaid flips the payment flag. Voided invoices cannot be paid or
// unpaid.
func (s *invoiceService) SetPaid(ctx context.Context, id uuid.UUID, paid bool) (*domain.Invoice, error) {
	var inv *domain.Invoice
	changed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.locked(ctx, id)
		if err != nil {
			return err
		}
		if inv.IsDeleted {
			return domain.ErrInvoiceVoided
		}
		if inv.IsPaid == paid {
			return nil
		}

		inv.IsPaid = paid
		inv.PaidAt = nil
		if paid {
			now := s.now().UTC()
			inv.PaidAt = &now
		}
		changed = true
		return s.stores.Invoices.UpdateInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	if changed && paid {
		s.metrics.InvoicePaid(inv.BusinessID.String())
	}
	return inv, nil
}

// SetDeliveryStatus changes the status and recounts, in the same
// transaction, every delivery note the invoice belongs to. The notes are
// locked before the invoice, the order every delivery write follows.
func (s *invoiceService) SetDeliveryStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) (*domain.Invoice, error) {
	if !status.Valid() {
		return nil, ErrInvalidDeliveryStat
	}

	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	var inv *domain.Invoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.stores.Deliveries.LockDeliveriesWithInvoice(ctx, biz, id); err != nil {
			return err
		}
		var err error
		inv, err = s.stores.Invoices.GetInvoiceForUpdate(ctx, biz, id)
		if err != nil {
			return err
		}
		if inv.IsDeleted {
			return domain.ErrInvoiceVoided
		}
		if inv.DeliveryStatus == status {
			return nil
		}

		inv.DeliveryStatus = status
		if err := s.stores.Invoices.UpdateInvoice(ctx, inv); err != nil {
			return err
		}
		return recountNotesWith(ctx, s.stores, inv.BusinessID, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Void marks the invoice deleted. The row and its delivery note
// memberships stay.
func (s *invoiceService) Void(ctx context.Context, id uuid.UUID) error {
	var inv *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.locked(ctx, id)
		if err != nil {
			return err
		}
		if inv.IsDeleted {
			return domain.ErrInvoiceVoided
		}
		inv.IsDeleted = true
		return s.stores.Invoices.UpdateInvoice(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.metrics.InvoiceVoided(inv.BusinessID.String())
	s.logger.InfoContext(ctx, "invoice voided", "invoice_id", inv.ID, "number", inv.DisplayNumber())
	return nil
}

// recountNotesWith rebuilds the status counts of every note containing
// invoiceID from the member invoices, read after the notes are locked.
func recountNotesWith(ctx context.Context, stores Stores, biz, invoiceID uuid.UUID) error {
	notes, err := stores.Deliveries.LockDeliveriesWithInvoice(ctx, biz, invoiceID)
	if err != nil {
		return err
	}
	for _, note := range notes {
		members, err := stores.Invoices.GetInvoices(ctx, biz, note.InvoiceIDs)
		if err != nil {
			return err
		}
		note.Recount(members)
		if err := stores.Deliveries.UpdateDelivery(ctx, note); err != nil {
			return err
		}
	}
	return nil
}
