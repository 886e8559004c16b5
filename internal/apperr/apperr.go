// Package apperr holds the error kinds the API layer knows how to render.
//
// Repositories and handlers return these (possibly wrapped with %w); the HTTP
// layer uses errors.As to pick the status code. Anything that isn't one of
// these becomes a 500.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is a malformed, missing, or out-of-range input. Field is
// the JSON field name when the problem is tied to one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError means a referenced id does not resolve to a record.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InvalidCredentialError is a login with a known email and a wrong password.
type InvalidCredentialError struct{}

func (e *InvalidCredentialError) Error() string { return "Invalid password" }

// TooManyRequestsError is returned by the login throttle.
type TooManyRequestsError struct {
	Message string
}

func (e *TooManyRequestsError) Error() string { return e.Message }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Required is the error for an absent mandatory field: "<field> is required".
func Required(field string) error {
	return &ValidationError{Message: field + " is required"}
}

func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func InvalidCredential() error {
	return &InvalidCredentialError{}
}

func TooManyRequests(message string) error {
	return &TooManyRequestsError{Message: message}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
