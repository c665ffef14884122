package service

import (
	"errors"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/tax"
	"github.com/dukerupert/fakturo/internal/totals"
)

// Auth errors
var (
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrEmailTaken         = domain.Errorf(domain.ECONFLICT, "", "An account with this email already exists")
)

// Invoice and delivery errors
var (
	ErrDeliveryVoided      = domain.Errorf(domain.EINVALID, "", "Voided invoices cannot be added to a delivery note")
	ErrNotInDelivery       = domain.Errorf(domain.ENOTFOUND, "", "Invoice is not part of this delivery note")
	ErrNoRecipient         = domain.Errorf(domain.EINVALID, "", "Invoice has no recipient email address")
	ErrInvalidDateRange    = domain.Errorf(domain.EINVALID, "", "Start date must be before end date")
	ErrUploadTooLarge      = domain.Errorf(domain.EINVALID, "", "File is larger than 5 MB")
	ErrInvalidDeliveryStat = domain.Errorf(domain.EINVALID, "", "Unknown delivery status")
)

// calculationError turns a rejected totals input into a field error the
// handler reports per request field.
func calculationError(op string, err error) error {
	var ie *totals.InputError
	if errors.As(err, &ie) {
		return domain.NewValidationError(op, ie.Field, ie.Message)
	}
	var re *tax.RateError
	if errors.As(err, &re) {
		return domain.NewValidationError(op, "taxRate", re.ErrorMessage())
	}
	return domain.Internal(err, op, "failed to calculate totals")
}
