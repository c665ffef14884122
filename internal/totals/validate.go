package totals

import "fmt"

const codeInvalid = "invalid"

// InputError is a rejected calculation input. Field names match the JSON
// request fields so handlers can report them per field.
type InputError struct {
	Code    string
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *InputError) ErrorCode() string {
	return e.Code
}

func invalid(field, message string) *InputError {
	return &InputError{Code: codeInvalid, Field: field, Message: message}
}

// Validate checks in for values the write path refuses to persist:
// negative quantities, prices, rates or fees, unknown discount types,
// percentage discounts above 100 and fixed discounts above the subtotal.
// Calculate itself does not clamp.
func Validate(in Input) error {
	for i, l := range in.Lines {
		if l.Quantity.IsNegative() {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "quantity cannot be negative")
		}
		if l.UnitPrice.IsNegative() {
			return invalid(fmt.Sprintf("items[%d].price", i), "price cannot be negative")
		}
	}

	if in.TaxRate.IsNegative() {
		return invalid("taxRate", "tax rate cannot be negative")
	}
	if in.DeliveryFee.IsNegative() {
		return invalid("deliveryFee", "delivery fee cannot be negative")
	}

	d := in.Discount
	if d.Value.IsNegative() {
		return invalid("discount.value", "discount cannot be negative")
	}
	switch d.Type {
	case DiscountPercentage:
		if d.Value.GreaterThan(hundred) {
			return invalid("discount.value", "percentage discount cannot exceed 100")
		}
	case DiscountFixed, "":
		if d.Value.GreaterThan(SubTotal(in.Lines)) {
			return invalid("discount.value", "discount cannot exceed the subtotal")
		}
	default:
		return invalid("discount.type", "discount type must be percentage or fixed")
	}

	return nil
}
