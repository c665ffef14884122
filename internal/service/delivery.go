package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/telemetry"
	"github.com/google/uuid"
)

type deliveryService struct {
	tx      domain.Transactor
	stores  Stores
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewDeliveryService creates the delivery note service.
func NewDeliveryService(tx domain.Transactor, stores Stores, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.DeliveryService {
	return &deliveryService{tx: tx, stores: stores, metrics: metrics, logger: loggerOrDefault(logger)}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ordered returns invoices in the order of ids, skipping ids with no
// matching invoice.
func ordered(ids []uuid.UUID, invoices []*domain.Invoice) []*domain.Invoice {
	byID := make(map[uuid.UUID]*domain.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}
	out := make([]*domain.Invoice, 0, len(ids))
	for _, id := range ids {
		if inv, ok := byID[id]; ok {
			out = append(out, inv)
		}
	}
	return out
}

// Create groups invoices into a new note. Every invoice must belong to
// the business and none may be voided.
func (s *deliveryService) Create(ctx context.Context, params domain.CreateDeliveryParams) (*domain.DeliveryView, error) {
	const op = "delivery.create"

	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, domain.NewValidationError(op, "name", "Name is required")
	}
	ids := dedupe(params.InvoiceIDs)
	if len(ids) == 0 {
		return nil, domain.NewValidationError(op, "invoiceIds", "Select at least one invoice")
	}

	note := &domain.DeliveryNote{
		BusinessID: biz,
		Name:       name,
		InvoiceIDs: ids,
		Notes:      params.Notes,
	}

	var invoices []*domain.Invoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.stores.Invoices.GetInvoicesForUpdate(ctx, biz, ids)
		if err != nil {
			return err
		}
		invoices = ordered(ids, found)
		if len(invoices) != len(ids) {
			missing := missingID(ids, invoices)
			return domain.NotFound(op, "invoice", missing.String())
		}
		for _, inv := range invoices {
			if inv.IsDeleted {
				return ErrDeliveryVoided
			}
		}

		note.Recount(invoices)
		return s.stores.Deliveries.CreateDelivery(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.DeliveryCreated(biz.String())
	s.logger.InfoContext(ctx, "delivery note created",
		"delivery_id", note.ID,
		"invoices", len(note.InvoiceIDs))
	return &domain.DeliveryView{DeliveryNote: note, Invoices: invoices}, nil
}

func missingID(ids []uuid.UUID, invoices []*domain.Invoice) uuid.UUID {
	have := make(map[uuid.UUID]bool, len(invoices))
	for _, inv := range invoices {
		have[inv.ID] = true
	}
	for _, id := range ids {
		if !have[id] {
			return id
		}
	}
	return uuid.Nil
}

func (s *deliveryService) view(ctx context.Context, note *domain.DeliveryNote) (*domain.DeliveryView, error) {
	invoices, err := s.stores.Invoices.GetInvoices(ctx, note.BusinessID, note.InvoiceIDs)
	if err != nil {
		return nil, err
	}
	return &domain.DeliveryView{DeliveryNote: note, Invoices: ordered(note.InvoiceIDs, invoices)}, nil
}

func (s *deliveryService) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryView, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.stores.Deliveries.GetDelivery(ctx, biz, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, note)
}

// GetPublic serves the shareable note link. Member invoices have their
// costs stripped.
func (s *deliveryService) GetPublic(ctx context.Context, id uuid.UUID) (*domain.DeliveryView, error) {
	note, err := s.stores.Deliveries.GetDeliveryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, note)
	if err != nil {
		return nil, err
	}
	for i, inv := range v.Invoices {
		v.Invoices[i] = inv.Public()
	}
	return v, nil
}

func (s *deliveryService) List(ctx context.Context, params domain.ListParams) ([]*domain.DeliveryNote, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}
	return s.stores.Deliveries.ListDeliveries(ctx, biz, params.Normalize())
}

func (s *deliveryService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*domain.DeliveryNote, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	var note *domain.DeliveryNote
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.stores.Deliveries.GetDeliveryForUpdate(ctx, biz, id)
		if err != nil {
			return err
		}
		note.Notes = notes
		return s.stores.Deliveries.UpdateDelivery(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// RemoveInvoice drops one invoice from the note and recounts. A shipped
// invoice that is left in no other note goes back to pending.
func (s *deliveryService) RemoveInvoice(ctx context.Context, id, invoiceID uuid.UUID) (*domain.DeliveryNote, error) {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return nil, err
	}

	var note *domain.DeliveryNote
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.stores.Deliveries.GetDeliveryForUpdate(ctx, biz, id)
		if err != nil {
			return err
		}
		if !note.RemoveInvoice(invoiceID) {
			return ErrNotInDelivery
		}

		if err := s.release(ctx, biz, note.ID, []uuid.UUID{invoiceID}); err != nil {
			return err
		}

		members, err := s.stores.Invoices.GetInvoices(ctx, biz, note.InvoiceIDs)
		if err != nil {
			return err
		}
		note.Recount(members)
		return s.stores.Deliveries.UpdateDelivery(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note. Its shipped invoices revert to pending unless
// another note still holds them.
func (s *deliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	biz, err := domain.RequireBusinessID(ctx)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		note, err := s.stores.Deliveries.GetDeliveryForUpdate(ctx, biz, id)
		if err != nil {
			return err
		}
		if err := s.stores.Deliveries.DeleteDelivery(ctx, biz, id); err != nil {
			return err
		}
		return s.release(ctx, biz, note.ID, note.InvoiceIDs)
	})
}

// release reverts shipped invoices that no note other than noteID holds.
// Invoices still held elsewhere keep their status, so no other note needs
// a recount. The caller already holds the lock on noteID.
func (s *deliveryService) release(ctx context.Context, biz, noteID uuid.UUID, invoiceIDs []uuid.UUID) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	invoices, err := s.stores.Invoices.GetInvoicesForUpdate(ctx, biz, invoiceIDs)
	if err != nil {
		return err
	}

	for _, inv := range invoices {
		if inv.DeliveryStatus != domain.DeliveryShipped || inv.IsDeleted {
			continue
		}
		notes, err := s.stores.Deliveries.ListDeliveriesWithInvoice(ctx, biz, inv.ID)
		if err != nil {
			return err
		}
		if heldElsewhere(notes, noteID) {
			continue
		}

		inv.DeliveryStatus = domain.DeliveryPending
		if err := s.stores.Invoices.UpdateInvoice(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func heldElsewhere(notes []*domain.DeliveryNote, noteID uuid.UUID) bool {
	for _, n := range notes {
		if n.ID != noteID {
			return true
		}
	}
	return false
}
