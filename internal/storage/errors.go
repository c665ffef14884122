package storage

import "fmt"

// Codes mirror the domain error codes without importing domain.
const (
	codeInternal = "internal"
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
)

// StorageError is a storage failure with a code the handler layer maps to
// an HTTP status.
type StorageError struct {
	Code    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *StorageError) ErrorMessage() string {
	return e.Message
}

var (
	ErrR2AccountIDRequired   = &StorageError{Code: codeInvalid, Message: "R2 account ID is required"}
	ErrR2CredentialsRequired = &StorageError{Code: codeInvalid, Message: "R2 credentials are required"}
	ErrR2BucketRequired      = &StorageError{Code: codeInvalid, Message: "R2 bucket name is required"}
	ErrMinioConfigRequired   = &StorageError{Code: codeInvalid, Message: "minio endpoint, credentials and bucket are required"}
)

func ErrFileNotFound(key string) error {
	return &StorageError{Code: codeNotFound, Message: fmt.Sprintf("file not found: %s", key)}
}

func ErrUnknownProvider(provider string) error {
	return &StorageError{Code: codeInvalid, Message: fmt.Sprintf("unknown storage provider: %s", provider)}
}

func ErrInvalidKey(key string) error {
	return &StorageError{Code: codeInvalid, Message: fmt.Sprintf("invalid storage key: %q", key)}
}

func ErrUnsupportedImage(contentType string) error {
	return &StorageError{Code: codeInvalid, Message: fmt.Sprintf("unsupported image type %q: use PNG or JPEG", contentType)}
}

func errBackend(op string, err error) error {
	return &StorageError{Code: codeInternal, Message: "storage " + op + " failed", Err: err}
}
