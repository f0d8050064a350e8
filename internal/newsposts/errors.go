package newsposts

// errors.go defines the error codes used by the news posts API

import "fmt"

// APIError represents a structured error returned by the news posts API.
type APIError struct {
	// code is the API error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *APIError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *APIError) Code() ErrorCode  { return e.code }
func (e *APIError) Message() string { return e.message }
func (e *APIError) Unwrap() error   { return e.wrapped }

// ErrorCode is used in errors returned by the API.
//
// The codes use the HTTP status they map to as a prefix:
//
//   - 4xxx for client errors
//   - 5xxx for server errors
type ErrorCode int

const (
	// ErrCodeMalformedRequest is used when the request cannot be parsed (bad JSON, bad path or query parameter)
	ErrCodeMalformedRequest ErrorCode = 4001

	// ErrCodeValidation is used when a well-formed request breaks a field rule (missing header, unknown genre, etc)
	ErrCodeValidation ErrorCode = 4002

	// ErrCodeNotFound is used when the post or path does not exist
	ErrCodeNotFound ErrorCode = 4004

	// ErrCodeMethodNotAllowed is used when the path exists but not for the request method
	ErrCodeMethodNotAllowed ErrorCode = 4005

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge ErrorCode = 4013

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded ErrorCode = 4029

	// ErrCodeInternalError is used for unexpected failures. The message is never sent to the client.
	ErrCodeInternalError ErrorCode = 5000
)

// NewMalformedRequestError creates an error for malformed requests.
func NewMalformedRequestError(msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &APIError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewValidationError creates a validation error for invalid input.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string) error {
	return &APIError{code: ErrCodeValidation, message: msg}
}

// NewNotFoundError creates an error for a missing resource.
func NewNotFoundError(msg string) error {
	return &APIError{code: ErrCodeNotFound, message: msg}
}

func NewMethodNotAllowedError(msg string) error {
	return &APIError{code: ErrCodeMethodNotAllowed, message: msg}
}

// NewInternalError creates an internal error for unexpected failures.
//
// The returned error will have code ErrCodeInternalError.
func NewInternalError(msg string) error {
	return &APIError{code: ErrCodeInternalError, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
// Use this for database failures and other errors that should not normally occur.
//
// The returned error will have code ErrCodeInternalError.
func WrapInternalError(err error, msg string) error {
	return &APIError{code: ErrCodeInternalError, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
//
// The returned error will have code ErrCodeRateLimitExceeded.
func NewRateLimitError(msg string) error {
	return &APIError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
//
// The returned error will have code ErrCodeRequestTooLarge.
func NewRequestTooLargeError(msg string) error {
	return &APIError{code: ErrCodeRequestTooLarge, message: msg}
}
