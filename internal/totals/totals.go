// Package totals derives invoice monetary totals from line items and rates.
//
// The same computation backs the live preview and the write path, so the
// stored grand total always equals
// subTotal - totalDiscount + totalTax + deliveryFee.
package totals

import (
	"context"

	"github.com/dukerupert/fakturo/internal/tax"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountType is how a discount value is applied to the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a percentage of the subtotal or a fixed amount.
type Discount struct {
	Value decimal.Decimal `json:"value"`
	Type  DiscountType    `json:"type"`
}

// Line is the part of a line item that contributes to the subtotal.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Input is everything the calculation depends on.
type Input struct {
	Lines       []Line
	Discount    Discount
	TaxRate     decimal.Decimal // percent
	DeliveryFee decimal.Decimal
}

// Totals are the derived amounts stored on an invoice.
type Totals struct {
	SubTotal      decimal.Decimal `json:"subTotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// Calculate computes the totals for in. It has no side effects.
// The only error is a negative tax rate.
func Calculate(in Input) (Totals, error) {
	subTotal := SubTotal(in.Lines)
	discount := DiscountAmount(subTotal, in.Discount)

	calc, err := tax.ForRate(in.TaxRate)
	if err != nil {
		return Totals{}, err
	}
	taxResult, err := calc.CalculateTax(context.Background(), tax.Params{
		TaxableAmount: subTotal.Sub(discount),
	})
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		SubTotal:      subTotal,
		TotalDiscount: discount,
		TotalTax:      taxResult.TotalTax,
		DeliveryFee:   in.DeliveryFee,
		GrandTotal:    subTotal.Sub(discount).Add(taxResult.TotalTax).Add(in.DeliveryFee),
	}, nil
}

// SubTotal is the sum of quantity × unit price over all lines.
func SubTotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return sum
}

// DiscountAmount resolves a discount against a subtotal. Anything that is
// not a percentage is taken as a fixed amount.
func DiscountAmount(subTotal decimal.Decimal, d Discount) decimal.Decimal {
	if d.Type == DiscountPercentage {
		return subTotal.Mul(d.Value).Div(hundred)
	}
	return d.Value
}

// Consistent reports whether the grand total matches its components.
func (t Totals) Consistent() bool {
	want := t.SubTotal.Sub(t.TotalDiscount).Add(t.TotalTax).Add(t.DeliveryFee)
	return t.GrandTotal.Equal(want)
}

// HasDiscount reports whether a discount line should be shown.
func (t Totals) HasDiscount() bool {
	return !t.TotalDiscount.IsZero()
}

// HasDeliveryFee reports whether a delivery-fee line should be shown.
func (t Totals) HasDeliveryFee() bool {
	return !t.DeliveryFee.IsZero()
}
