// Package apperr defines the error taxonomy shared by the cart, order and
// checkout components, plus the mapping to HTTP status codes used at the
// handler boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed or incomplete input (HTTP 400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced entity (HTTP 404).
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ForbiddenError reports an authenticated but unpermitted request (HTTP 403).
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func Forbidden(msg string) error {
	return &ForbiddenError{Msg: msg}
}

// InvalidTransitionError reports a state-machine rule violation (HTTP 400).
type InvalidTransitionError struct {
	From string
	To   string
	Msg  string
}

func (e *InvalidTransitionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// ConflictError reports a unique-constraint race, e.g. an orderNumber
// collision. Callers retry internally; it only surfaces when retries are
// exhausted.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// StatusCode maps an error to the HTTP status the taxonomy assigns it.
// Unknown errors are infrastructure failures and map to 500.
func StatusCode(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		forbidden  *ForbiddenError
		transition *InvalidTransitionError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &transition):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
