package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/fakturo/internal/totals"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus tracks shipping of an invoice, independent of payment.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryShipped   DeliveryStatus = "shipped"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryReturned  DeliveryStatus = "returned"
)

// DeliveryStatuses lists every status in display order.
var DeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryShipped, DeliveryDelivered, DeliveryReturned}

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryShipped, DeliveryDelivered, DeliveryReturned:
		return true
	}
	return false
}

// Invoice lifecycle errors.
var (
	ErrInvoiceLocked  = &Error{Code: ECONFLICT, Message: "Invoice is paid or voided and can no longer be edited"}
	ErrInvoiceVoided  = &Error{Code: ECONFLICT, Message: "Invoice has been voided"}
	ErrInvoiceNoItems = &Error{Code: EINVALID, Message: "Invoice needs at least one line item"}
)

// ClientSnapshot is the client's contact data frozen at issue time.
type ClientSnapshot struct {
	ClientID *uuid.UUID `json:"clientId,omitempty"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	TaxID    string     `json:"taxId"`
	Address  Address    `json:"address"`
}

// LineItem is a frozen copy of a catalog item (or an ad-hoc line).
// ItemID only links back to the catalog for navigation.
type LineItem struct {
	ItemID      *uuid.UUID      `json:"itemId,omitempty"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

// Total is quantity × price.
func (l LineItem) Total() decimal.Decimal {
	return l.Quantity.Mul(l.Price)
}

// Invoice is a billable document. Totals are derived by the totals package
// on every write and stored, never recomputed on read.
type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	BusinessID     uuid.UUID       `json:"businessId"`
	Number         int64           `json:"number"`
	Client         ClientSnapshot  `json:"client"`
	Items          []LineItem      `json:"items"`
	Currency       string          `json:"currency"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	IsPaid         bool            `json:"isPaid"`
	IsDeleted      bool            `json:"isDeleted"`
	DeliveryStatus DeliveryStatus  `json:"deliveryStatus"`
	Notes          string          `json:"notes"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	Discount       totals.Discount `json:"discount"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Totals         totals.Totals   `json:"totals"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DisplayNumber is the printed invoice number.
func (inv *Invoice) DisplayNumber() string {
	return fmt.Sprintf("INV-%05d", inv.Number)
}

// Editable reports whether items, dates, rates, notes or the client
// snapshot may still change.
func (inv *Invoice) Editable() bool {
	return !inv.IsPaid && !inv.IsDeleted
}

// TotalsInput collects the values the totals calculation depends on.
func (inv *Invoice) TotalsInput() totals.Input {
	lines := make([]totals.Line, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = totals.Line{Quantity: it.Quantity, UnitPrice: it.Price}
	}
	return totals.Input{
		Lines:       lines,
		Discount:    inv.Discount,
		TaxRate:     inv.TaxRate,
		DeliveryFee: inv.DeliveryFee,
	}
}

// Recalculate validates the inputs and stores freshly derived totals.
func (inv *Invoice) Recalculate() error {
	in := inv.TotalsInput()
	if err := totals.Validate(in); err != nil {
		return err
	}
	t, err := totals.Calculate(in)
	if err != nil {
		return err
	}
	inv.Totals = t
	return nil
}

// Cost is the summed cost of goods on the invoice.
func (inv *Invoice) Cost() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range inv.Items {
		sum = sum.Add(it.Quantity.Mul(it.Cost))
	}
	return sum
}

// Public returns a copy safe for the unauthenticated viewer: costs are
// stripped from every line.
func (inv *Invoice) Public() *Invoice {
	cp := *inv
	cp.Items = make([]LineItem, len(inv.Items))
	for i, it := range inv.Items {
		it.Cost = decimal.Zero
		cp.Items[i] = it
	}
	return &cp
}

// LineInput is one line of an invoice create or update request. With an
// ItemID the catalog item is copied and Price/Cost/Name override the copy;
// without one the line is ad hoc and Name is required.
type LineInput struct {
	ItemID      *uuid.UUID       `json:"itemId"`
	Name        string           `json:"name" validate:"max=200"`
	SKU         string           `json:"sku" validate:"max=64"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
}

// InvoiceParams is the body of invoice create and update requests. On
// update nil fields keep their stored value.
type InvoiceParams struct {
	ClientID    *uuid.UUID       `json:"clientId"`
	Client      *ClientSnapshot  `json:"client"`
	Items       []LineInput      `json:"items" validate:"omitempty,dive"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
	IssueDate   *time.Time       `json:"issueDate"`
	DueDate     *time.Time       `json:"dueDate"`
	Notes       *string          `json:"notes"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
	Discount    *totals.Discount `json:"discount"`
	DeliveryFee *decimal.Decimal `json:"deliveryFee"`
}

// InvoiceFilter narrows invoice lists. Voided invoices are excluded unless
// Deleted asks for them.
type InvoiceFilter struct {
	IsPaid         *bool
	Deleted        *bool
	DeliveryStatus DeliveryStatus
	ClientName     string
	IssuedFrom     *time.Time
	IssuedTo       *time.Time
	Limit          int
	Offset         int
}

// InvoiceStore persists invoices. CreateInvoice allocates the next
// per-business number.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, businessID, id uuid.UUID) (*Invoice, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetInvoices(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*Invoice, error)
	ListInvoices(ctx context.Context, businessID uuid.UUID, filter InvoiceFilter) ([]*Invoice, error)

	// ListInvoicesIssued returns every invoice, voided included, issued
	// within [from, to]. It is not paged.
	ListInvoicesIssued(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*Invoice, error)

	// GetInvoiceForUpdate and GetInvoicesForUpdate lock the rows until the
	// surrounding transaction ends. The batch locks in id order.
	GetInvoiceForUpdate(ctx context.Context, businessID, id uuid.UUID) (*Invoice, error)
	GetInvoicesForUpdate(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*Invoice, error)

	// UpdateInvoice writes every mutable column, state flags included.
	UpdateInvoice(ctx context.Context, inv *Invoice) error

	// UpdateInvoiceContent writes client, lines, dates, notes and totals
	// only, and fails with ErrInvoiceLocked unless the stored row is
	// still unpaid and not voided.
	UpdateInvoiceContent(ctx context.Context, inv *Invoice) error
}

type InvoiceService interface {
	Create(ctx context.Context, params InvoiceParams) (*Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*Invoice, error)
	Update(ctx context.Context, id uuid.UUID, params InvoiceParams) (*Invoice, error)
	UpdateClient(ctx context.Context, id uuid.UUID, client ClientSnapshot) (*Invoice, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) (*Invoice, error)
	SetDeliveryStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus) (*Invoice, error)
	Void(ctx context.Context, id uuid.UUID) error
	Preview(ctx context.Context, params InvoiceParams) (*totals.Totals, error)
}

// Transactor runs fn in a single database transaction. Stores called with
// the ctx passed to fn join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
