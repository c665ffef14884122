package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentageCalculator calculates tax using a flat percentage rate.
type PercentageCalculator struct {
	rate decimal.Decimal // percent, e.g. 10 for 10%
	name string
}

// NewPercentageCalculator creates a calculator for a rate given in percent.
func NewPercentageCalculator(ratePercent decimal.Decimal) (*PercentageCalculator, error) {
	if ratePercent.IsNegative() {
		return nil, &RateError{Rate: ratePercent}
	}
	return &PercentageCalculator{rate: ratePercent, name: "Tax"}, nil
}

// Rate returns the configured rate in percent.
func (c *PercentageCalculator) Rate() decimal.Decimal {
	return c.rate
}

// CalculateTax computes TaxableAmount × rate / 100.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params Params) (*Result, error) {
	amount := params.TaxableAmount.Mul(c.rate).Div(hundred)

	return &Result{
		TotalTax: amount,
		Breakdown: []Breakdown{
			{Name: c.name, Rate: c.rate, Amount: amount},
		},
	}, nil
}
