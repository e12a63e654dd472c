package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies client-observable failures. Presentation only ever needs
// the message string; Kind is carried underneath for callers that want to
// branch (retry on network, re-login on auth, highlight fields on
// validation).
type Kind string

const (
	KindNetwork    Kind = "network"    // transport failed, no HTTP response
	KindHTTP       Kind = "http"       // non-2xx status from the backend
	KindDomain     Kind = "domain"     // backend accepted the call, rejected the action
	KindValidation Kind = "validation" // rejected client-side, no network call made
	KindAuth       Kind = "auth"       // missing/expired/denied credentials
	KindInternal   Kind = "internal"   // client-side bug or decode failure
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized    ErrorCode = "E1001"
	ErrCodeTokenExpired    ErrorCode = "E1002"
	ErrCodeAccessDenied    ErrorCode = "E1003"
	ErrCodePendingApproval ErrorCode = "E1004"

	// Validation errors (2xxx)
	ErrCodeValidation   ErrorCode = "E2001"
	ErrCodeMissingField ErrorCode = "E2002"

	// Transport errors (3xxx)
	ErrCodeNetwork ErrorCode = "E3001"
	ErrCodeTimeout ErrorCode = "E3002"
	ErrCodeDecode  ErrorCode = "E3003"

	// Backend errors (4xxx)
	ErrCodeHTTPStatus ErrorCode = "E4001"
	ErrCodeBusiness   ErrorCode = "E4002"
	ErrCodeNotFound   ErrorCode = "E4003"
	ErrCodeConflict   ErrorCode = "E4004"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
)

// AppError represents a client-side error with context
type AppError struct {
	Kind    Kind                   `json:"kind"`
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"-"` // HTTP status when Kind == KindHTTP
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface. The message alone is what the
// envelope contract surfaces, so Error() returns exactly it.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithField adds a field to the error
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(kind Kind, code ErrorCode, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, kind Kind, code ErrorCode, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Cause: err}
}

// NetworkError wraps a transport failure (fetch rejected, DNS, refused)
func NetworkError(err error) *AppError {
	return Wrap(err, KindNetwork, ErrCodeNetwork, "a network error occurred, please try again")
}

// TimeoutError wraps a deadline/cancellation failure
func TimeoutError(err error) *AppError {
	return Wrap(err, KindNetwork, ErrCodeTimeout, "the request timed out")
}

// DecodeError wraps a response-body decode failure
func DecodeError(err error) *AppError {
	return Wrap(err, KindInternal, ErrCodeDecode, "could not read the server response")
}

// HTTPError carries a non-2xx status and the message extracted from the body
func HTTPError(status int, message string) *AppError {
	e := &AppError{Kind: kindForStatus(status), Code: codeForStatus(status), Message: message, Status: status}
	return e
}

// DomainError carries a business rejection the backend reported
func DomainError(message string) *AppError {
	return New(KindDomain, ErrCodeBusiness, message)
}

// ValidationError carries a client-side validation failure
func ValidationError(message string) *AppError {
	return New(KindValidation, ErrCodeValidation, message)
}

// MissingField reports an empty required field
func MissingField(field string) *AppError {
	return New(KindValidation, ErrCodeMissingField, fmt.Sprintf("%s is required", field)).
		WithField("field", field)
}

// Unauthorized reports a missing or rejected credential
func Unauthorized(message string) *AppError {
	return New(KindAuth, ErrCodeUnauthorized, message)
}

// PendingApproval reports the organizer-awaiting-approval login rejection.
// This is a distinct, user-visible message, not a generic auth failure.
func PendingApproval() *AppError {
	return New(KindAuth, ErrCodePendingApproval,
		"your organizer account is pending approval by an administrator")
}

// Internal reports a client-side bug
func Internal(message string) *AppError {
	return New(KindInternal, ErrCodeInternal, message)
}

// ============================================================
// Helper functions
// ============================================================

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusUnprocessableEntity, http.StatusConflict:
		return KindDomain
	default:
		return KindHTTP
	}
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusUnprocessableEntity:
		return ErrCodeBusiness
	default:
		return ErrCodeHTTPStatus
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// ToAppError converts any error to AppError
func ToAppError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Wrap(err, KindInternal, ErrCodeInternal, err.Error())
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
