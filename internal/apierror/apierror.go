// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ── Business error taxonomy ──────────────────────────────────────────────────
// Services return these typed errors; handlers map them to HTTP statuses
// (400 / 404 / 409). Anything else is internal and surfaced generically.

// InvalidInputError means the request carried a well-formed JSON payload whose
// content is still unusable, e.g. a date outside the DD-MM-YYYY format. It is
// input rejection, not a business-rule conflict.
type InvalidInputError struct{ Msg string }

func (e *InvalidInputError) Error() string { return e.Msg }

// NotFoundError means a referenced libro, usuario or prestamo does not exist.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError means a business rule was violated: insufficient stock,
// inactive user, duplicate active loan, or an open loan blocking a sale.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

func NotFound(msg string) error { return &NotFoundError{Msg: msg} }
func Conflict(msg string) error { return &ConflictError{Msg: msg} }
func Invalid(msg string) error  { return &InvalidInputError{Msg: msg} }

func IsInvalid(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var cf *ConflictError
	return errors.As(err, &cf)
}
