package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code maps onto the HTTP surface.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, msg string, retryable, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		PublicMessage:  msg,
		Retryable:      retryable,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:   meta(http.StatusBadRequest, "validation failed", false, true),
	CodeUnauthorized: meta(http.StatusUnauthorized, "authentication required", false, false),
	CodeForbidden:    meta(http.StatusForbidden, "access denied", false, false),
	CodeNotFound:     meta(http.StatusNotFound, "resource not found", false, false),
	CodeConflict:     meta(http.StatusConflict, "conflict detected", false, false),
	CodeRateLimit:    meta(http.StatusTooManyRequests, "rate limit exceeded", false, false),
	CodeInternal:     meta(http.StatusInternalServerError, "internal server error", true, false),
	CodeDependency:   meta(http.StatusServiceUnavailable, "dependency unavailable", true, true),
}

// MetadataFor returns the transport metadata for a code. Unknown codes are
// treated as internal errors.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried between services and the HTTP layer.
// All accessors tolerate a nil receiver.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message on top of an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured details, surfaced to clients only when the
// code's metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts a typed *Error from anywhere in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
