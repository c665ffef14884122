package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RenderOptions picks the template and language of a rendered invoice.
// Empty values fall back to the business settings and session language.
type RenderOptions struct {
	Template string
	Language string
}

// RenderedDocument is a finished PDF.
type RenderedDocument struct {
	Filename string
	Template string
	Pages    int
	Data     []byte
}

// DocumentCache stores rendered PDFs by key.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// SendInvoiceParams is the body of an invoice email request.
type SendInvoiceParams struct {
	To      string `json:"to" validate:"omitempty,email"`
	Message string `json:"message" validate:"max=2000"`
}

type DocumentService interface {
	RenderInvoice(ctx context.Context, id uuid.UUID, opts RenderOptions) (*RenderedDocument, error)
	RenderPublic(ctx context.Context, id uuid.UUID, opts RenderOptions) (*RenderedDocument, error)
	PublicInvoice(ctx context.Context, id uuid.UUID) (*Invoice, *Business, error)
	SendInvoice(ctx context.Context, id uuid.UUID, params SendInvoiceParams) error
}

// AnalyticsRange bounds a summary by issue date, inclusive.
type AnalyticsRange struct {
	From time.Time
	To   time.Time
}

// InvoiceCounts splits invoices by payment state.
type InvoiceCounts struct {
	Total  int `json:"total"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
	Voided int `json:"voided"`
}

// MonthlyPoint aggregates one calendar month ("2006-01").
type MonthlyPoint struct {
	Month    string          `json:"month"`
	Count    int             `json:"count"`
	Invoiced decimal.Decimal `json:"invoiced"`
	Paid     decimal.Decimal `json:"paid"`
}

// ItemRevenue is one row of the top items table.
type ItemRevenue struct {
	ItemID   *uuid.UUID      `json:"itemId,omitempty"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// AnalyticsSummary backs the dashboard. Voided invoices only appear in
// Counts.Voided.
type AnalyticsSummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Currency    string          `json:"currency"`
	Counts      InvoiceCounts   `json:"counts"`
	Revenue     decimal.Decimal `json:"revenue"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Tax         decimal.Decimal `json:"tax"`
	Discounts   decimal.Decimal `json:"discounts"`
	Profit      decimal.Decimal `json:"profit"`
	Delivery    StatusCounts    `json:"delivery"`
	Monthly     []MonthlyPoint  `json:"monthly"`
	TopItems    []ItemRevenue   `json:"topItems"`
}

// Spreadsheet is an exported workbook.
type Spreadsheet struct {
	Filename string
	Data     []byte
}

// SpreadsheetContentType is the media type of exported workbooks.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsService interface {
	Summary(ctx context.Context, r AnalyticsRange) (*AnalyticsSummary, error)

	// Export lists every invoice issued in r, voided ones included, as an
	// XLSX workbook.
	Export(ctx context.Context, r AnalyticsRange) (*Spreadsheet, error)
}
