package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an application error
type Kind string

const (
	KindMissingParameter Kind = "MISSING_PARAMETER"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindNotFound         Kind = "NOT_FOUND"
	KindUpstreamAPI      Kind = "UPSTREAM_API_ERROR"
	KindEmptyResult      Kind = "EMPTY_RESULT"
	KindTransport        Kind = "TRANSPORT_ERROR"
	KindValidation       Kind = "VALIDATION"
	KindInternal         Kind = "INTERNAL"
)

// HTTPStatus is the response status used when an error of this kind
// reaches the HTTP layer
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingParameter, KindValidation:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound, KindEmptyResult:
		return http.StatusNotFound
	case KindUpstreamAPI:
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents an application-specific error
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same kind. A target
// with an empty message matches any error of that kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(kind Kind, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is checks
var (
	ErrMissingParameter = &AppError{Kind: KindMissingParameter}
	ErrAccessDenied     = &AppError{Kind: KindAccessDenied}
	ErrNotFound         = &AppError{Kind: KindNotFound}
	ErrUpstreamAPI      = &AppError{Kind: KindUpstreamAPI}
	ErrEmptyResult      = &AppError{Kind: KindEmptyResult}
	ErrTransport        = &AppError{Kind: KindTransport}
	ErrValidation       = &AppError{Kind: KindValidation}
)

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// NewMissingParameterError reports a required input that was empty
func NewMissingParameterError(name string) *AppError {
	return NewAppError(KindMissingParameter, fmt.Sprintf("missing required parameter: %s", name), nil).
		WithContext("parameter", name)
}

// NewAccessDeniedError reports that the caller may not read the resource
func NewAccessDeniedError(message string, cause error) *AppError {
	return NewAppError(KindAccessDenied, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(KindNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewUpstreamError wraps a structured fault returned by a remote service
func NewUpstreamError(message string, cause error) *AppError {
	return NewAppError(KindUpstreamAPI, message, cause)
}

// NewEmptyResultError reports a successful call that produced no data
func NewEmptyResultError(message string) *AppError {
	return NewAppError(KindEmptyResult, message, nil)
}

// NewTransportError wraps any other failure to reach a remote service
func NewTransportError(message string, cause error) *AppError {
	return NewAppError(KindTransport, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(KindValidation, message, nil)
}
