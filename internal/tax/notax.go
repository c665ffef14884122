package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// NoTaxCalculator returns zero tax for all calculations.
// Used when an invoice carries a zero tax rate.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() *NoTaxCalculator {
	return &NoTaxCalculator{}
}

// CalculateTax always returns zero tax.
func (c *NoTaxCalculator) CalculateTax(ctx context.Context, params Params) (*Result, error) {
	return &Result{TotalTax: decimal.Zero}, nil
}

// ForRate picks the calculator for an invoice tax rate in percent.
func ForRate(ratePercent decimal.Decimal) (Calculator, error) {
	if ratePercent.IsZero() {
		return NewNoTaxCalculator(), nil
	}
	return NewPercentageCalculator(ratePercent)
}
