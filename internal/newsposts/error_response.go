package newsposts

// error_response.go implements the JSON error response returned by the API
// and maps lower level errors to it

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/information-sharing-networks/newsposts/internal/logger"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {

	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod" example:"GET"`

	// The URI that was requested
	RequestURI string `json:"requestUri" example:"/api/newsposts/6f0c8e86-9b38-4a56-9d59-0e4a8e0c2d4b"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode" example:"404"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText" example:"Not Found"`

	// A long description corresponding to the HTTP status code with additional information
	StatusCodeMessage string `json:"statusCodeMessage,omitempty" example:"Not found"`

	// The request id, also present in the server logs
	ProviderCorrelationReference string `json:"providerCorrelationReference,omitempty"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime" example:"2026-01-02T15:04:05Z"`

	// An array of errors providing more detail about the root cause
	Errors []DetailedError `json:"errors"`
}

// DetailedError represents a detailed error in the error response
type DetailedError struct {
	ErrorCode        ErrorCode `json:"errorCode" example:"4004"`
	ErrorCodeText    string    `json:"errorCodeText" example:"Not found"`
	ErrorCodeMessage string    `json:"errorCodeMessage" example:"news post not found"`
}

// MapErrorToResponse maps an APIError, a body size error or a generic error to an error response.
//
// Internal error messages are replaced with a generic message in the response;
// RespondWithErrorResponse logs the full error server-side.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	// body exceeded the MaxBytesReader limit while a handler was reading it
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		tooLarge := &APIError{
			code:    ErrCodeRequestTooLarge,
			message: fmt.Sprintf("Request body exceeds maximum allowed size (%d bytes)", maxBytesErr.Limit),
		}
		return errorResponseFromAPIError(tooLarge, r, requestID)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return errorResponseFromAPIError(apiErr, r, requestID)
	}

	// fallback - this is not expected - return an internal error response and log the unmapped error
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
		slog.String("request_id", requestID),
	)
	return errorResponseFromAPIError(&APIError{code: ErrCodeInternalError, message: err.Error()}, r, requestID)
}

// statusForCode returns the HTTP status and short text for an error code
func statusForCode(code ErrorCode) (int, string) {
	switch code {
	case ErrCodeMalformedRequest:
		return http.StatusBadRequest, "Malformed request"
	case ErrCodeValidation:
		return http.StatusBadRequest, "Invalid news post"
	case ErrCodeNotFound:
		return http.StatusNotFound, "Not found"
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed, "Method not allowed"
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge, "Request too large"
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests, "Rate limit exceeded"
	default:
		return http.StatusInternalServerError, "Internal Error"
	}
}

func errorResponseFromAPIError(err *APIError, r *http.Request, requestID string) *ErrorResponse {
	statusCode, errorCodeText := statusForCode(err.Code())

	errorCode := err.Code()
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		errorCode = ErrCodeInternalError
		message = "An internal error occurred"
	}

	return &ErrorResponse{
		HTTPMethod:                   r.Method,
		RequestURI:                   r.RequestURI,
		StatusCode:                   statusCode,
		StatusCodeText:               http.StatusText(statusCode),
		StatusCodeMessage:            errorCodeText,
		ProviderCorrelationReference: requestID,
		ErrorDateTime:                time.Now().UTC().Format(time.RFC3339),
		Errors: []DetailedError{
			{
				ErrorCode:        errorCode,
				ErrorCodeText:    errorCodeText,
				ErrorCodeMessage: message,
			},
		},
	}
}
