package domain

import (
	"errors"
	"fmt"
)

// Error codes. Handlers map them to HTTP statuses and clients use them as
// i18n keys for the user-facing message.
const (
	EINVALID      = "invalid"      // 400
	EUNAUTHORIZED = "unauthorized" // 401
	EFORBIDDEN    = "forbidden"    // 403
	ENOTFOUND     = "not_found"    // 404
	ECONFLICT     = "conflict"     // 409
	ERATELIMIT    = "rate_limit"   // 429
	EINTERNAL     = "internal"     // 500, details hidden
)

const internalMessage = "An internal error occurred. Please try again later."

// Error is an application error carrying a code, the operation that failed
// and an optional wrapped cause.
type Error struct {
	Code string

	// Message is safe to show to users.
	Message string

	// Op names the failing operation, e.g. "invoice.update". Logged, never shown.
	Op string

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// coded is implemented by the package-local error types (storage, email,
// tax, totals) that cannot import domain.
type coded interface {
	ErrorCode() string
}

type messaged interface {
	ErrorMessage() string
}

// ErrorCode returns the code of the first *Error in err's chain.
// Validation errors are EINVALID, package-local errors report their own
// code, anything else is EINTERNAL; nil yields "".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return EINVALID
	}
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return EINTERNAL
}

// ErrorMessage returns the message to show a user. Internal and unknown
// errors get a generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return internalMessage
		}
		return e.Message
	}
	if ErrorCode(err) == EINTERNAL {
		return internalMessage
	}
	var m messaged
	if errors.As(err, &m) {
		return m.ErrorMessage()
	}
	return err.Error()
}

// ErrorOp returns the operation recorded on err, if any.
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Errorf builds an *Error with a formatted message.
//
//	domain.Errorf(domain.EINVALID, "invoice.create", "unknown item %s", id)
func Errorf(code, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code, operation and message to err. A nil err stays nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// IsCode reports whether err carries code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// ValidationError collects per-field input failures. Field names are the
// JSON request field names.
type ValidationError struct {
	Fields map[string]string
	Op     string
}

func (e *ValidationError) Error() string {
	prefix := ""
	if e.Op != "" {
		prefix = e.Op + ": "
	}
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			return prefix + field + ": " + msg
		}
	}
	return fmt.Sprintf("%svalidation failed for %d fields", prefix, len(e.Fields))
}

// NewValidationError reports a single invalid field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{Op: op, Fields: map[string]string{field: message}}
}

// AddFieldError records another field failure on err, creating a
// ValidationError when err is nil or of another type.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Fields[field] = message
		return ve
	}
	return &ValidationError{Fields: map[string]string{field: message}}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the field map of a ValidationError, or nil.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// Scope errors shared by every business-owned resource.
var (
	ErrBusinessMismatch = &Error{Code: EFORBIDDEN, Message: "Access denied: resource belongs to a different business"}
	ErrSessionRequired  = &Error{Code: EUNAUTHORIZED, Message: "Authentication required"}
)

// NotFound reports a missing resource, e.g. NotFound("invoice.get", "invoice", id).
func NotFound(op, resource, identifier string) error {
	return &Error{Code: ENOTFOUND, Op: op, Message: fmt.Sprintf("%s not found: %s", resource, identifier)}
}

func Unauthorized(op, message string) error {
	return &Error{Code: EUNAUTHORIZED, Op: op, Message: message}
}

func Forbidden(op, message string) error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

func Invalid(op, message string) error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Code: ECONFLICT, Op: op, Message: message}
}

// Internal wraps err as EINTERNAL. Users only ever see the generic message.
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}
