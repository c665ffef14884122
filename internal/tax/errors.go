package tax

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeRate is matched with errors.Is against any *RateError.
var ErrNegativeRate = errors.New("tax: negative rate")

// RateError rejects an invoice tax rate. It reports the "invalid" code
// the way domain errors do, without importing domain.
type RateError struct {
	Rate decimal.Decimal
}

func (e *RateError) Error() string {
	return "tax: negative rate " + e.Rate.String() + "%"
}

func (e *RateError) Unwrap() error { return ErrNegativeRate }

func (e *RateError) ErrorCode() string { return "invalid" }

func (e *RateError) ErrorMessage() string {
	return "Tax rate cannot be negative"
}
