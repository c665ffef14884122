package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax computes tax on an already discounted amount.
	CalculateTax(ctx context.Context, params Params) (*Result, error)
}

// Params contains all information needed for tax calculation.
type Params struct {
	// TaxableAmount is the invoice subtotal after discount.
	TaxableAmount decimal.Decimal
}

// Result contains the calculated tax amount and breakdown.
type Result struct {
	TotalTax   decimal.Decimal
	Breakdown  []Breakdown
	IsEstimate bool
}

// Breakdown represents one tax line printed on a document.
type Breakdown struct {
	Name   string
	Rate   decimal.Decimal // percent, e.g. 10 for 10%
	Amount decimal.Decimal
}
