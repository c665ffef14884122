package email

import "fmt"

// These mirror domain error codes to avoid an import cycle. The handler
// layer maps them to HTTP status codes.
const (
	codeInternal = "internal"
	codeInvalid  = "invalid"
)

// EmailError represents an email-specific error with a code and message.
type EmailError struct {
	Code    string
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *EmailError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *EmailError) ErrorMessage() string {
	return e.Message
}

var (
	ErrInvalidFromAddress = &EmailError{Code: codeInvalid, Message: "Invalid from email address"}
	ErrInvalidToAddress   = &EmailError{Code: codeInvalid, Message: "Invalid recipient email address"}
	ErrNoRecipient        = &EmailError{Code: codeInvalid, Message: "At least one recipient is required"}
)

func errSendFailed(err error) error {
	return &EmailError{Code: codeInternal, Message: "Email could not be sent", Err: err}
}

// ErrTemplateNotFound creates a template not found error.
func ErrTemplateNotFound(templateName string) error {
	return &EmailError{
		Code:    codeInternal,
		Message: fmt.Sprintf("Email template %s not found", templateName),
	}
}
