package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusCounts is how many member invoices sit in each delivery status.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Returned  int `json:"returned"`
}

// Add counts one invoice in status s. Unknown statuses count as pending so
// the sum still matches the number of invoices.
func (c *StatusCounts) Add(s DeliveryStatus) {
	switch s {
	case DeliveryShipped:
		c.Shipped++
	case DeliveryDelivered:
		c.Delivered++
	case DeliveryReturned:
		c.Returned++
	default:
		c.Pending++
	}
}

func (c StatusCounts) Total() int {
	return c.Pending + c.Shipped + c.Delivered + c.Returned
}

// Get returns the count for s.
func (c StatusCounts) Get(s DeliveryStatus) int {
	switch s {
	case DeliveryPending:
		return c.Pending
	case DeliveryShipped:
		return c.Shipped
	case DeliveryDelivered:
		return c.Delivered
	case DeliveryReturned:
		return c.Returned
	}
	return 0
}

// DeliveryNote is a named manifest of invoices shipped together.
// StatusCounts always sums to len(InvoiceIDs).
type DeliveryNote struct {
	ID           uuid.UUID    `json:"id"`
	BusinessID   uuid.UUID    `json:"businessId"`
	Name         string       `json:"name"`
	InvoiceIDs   []uuid.UUID  `json:"invoiceIds"`
	StatusCounts StatusCounts `json:"statusCounts"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Recount rebuilds StatusCounts from the member invoices. Invoices that are
// not members are ignored and members missing from invoices count as
// pending.
func (d *DeliveryNote) Recount(invoices []*Invoice) {
	status := make(map[uuid.UUID]DeliveryStatus, len(invoices))
	for _, inv := range invoices {
		status[inv.ID] = inv.DeliveryStatus
	}

	var counts StatusCounts
	for _, id := range d.InvoiceIDs {
		counts.Add(status[id])
	}
	d.StatusCounts = counts
}

// Consistent reports whether the counts match the member list.
func (d *DeliveryNote) Consistent() bool {
	return d.StatusCounts.Total() == len(d.InvoiceIDs)
}

// Contains reports whether invoiceID is a member.
func (d *DeliveryNote) Contains(invoiceID uuid.UUID) bool {
	for _, id := range d.InvoiceIDs {
		if id == invoiceID {
			return true
		}
	}
	return false
}

// RemoveInvoice drops invoiceID from the member list. It reports whether
// anything was removed; counts must be rebuilt afterwards.
func (d *DeliveryNote) RemoveInvoice(invoiceID uuid.UUID) bool {
	for i, id := range d.InvoiceIDs {
		if id == invoiceID {
			d.InvoiceIDs = append(d.InvoiceIDs[:i:i], d.InvoiceIDs[i+1:]...)
			return true
		}
	}
	return false
}

// CreateDeliveryParams is the body of a delivery note create request.
type CreateDeliveryParams struct {
	Name       string      `json:"name" validate:"required,max=200"`
	InvoiceIDs []uuid.UUID `json:"invoiceIds" validate:"required,min=1"`
	Notes      string      `json:"notes"`
}

// DeliveryView is a note with its member invoices resolved.
type DeliveryView struct {
	*DeliveryNote
	Invoices []*Invoice `json:"invoices"`
}

type DeliveryStore interface {
	CreateDelivery(ctx context.Context, d *DeliveryNote) error
	GetDelivery(ctx context.Context, businessID, id uuid.UUID) (*DeliveryNote, error)
	GetDeliveryByID(ctx context.Context, id uuid.UUID) (*DeliveryNote, error)
	ListDeliveries(ctx context.Context, businessID uuid.UUID, params ListParams) ([]*DeliveryNote, error)
	ListDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*DeliveryNote, error)

	// GetDeliveryForUpdate and LockDeliveriesWithInvoice lock the note
	// rows until the surrounding transaction ends, the latter in id order.
	// Note locks are always taken before invoice locks.
	GetDeliveryForUpdate(ctx context.Context, businessID, id uuid.UUID) (*DeliveryNote, error)
	LockDeliveriesWithInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) ([]*DeliveryNote, error)
	UpdateDelivery(ctx context.Context, d *DeliveryNote) error
	DeleteDelivery(ctx context.Context, businessID, id uuid.UUID) error
}

type DeliveryService interface {
	Create(ctx context.Context, params CreateDeliveryParams) (*DeliveryView, error)
	Get(ctx context.Context, id uuid.UUID) (*DeliveryView, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*DeliveryView, error)
	List(ctx context.Context, params ListParams) ([]*DeliveryNote, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*DeliveryNote, error)
	RemoveInvoice(ctx context.Context, id, invoiceID uuid.UUID) (*DeliveryNote, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
