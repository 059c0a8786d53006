// internal/pkg/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals malformed input or a failed business-rule
// precondition (empty cart, over-quantity return, missing tracking number).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError signals a missing cart, order, address or payment method.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError signals an illegal state transition or stale data. From/To are
// set for state-machine violations so the caller can resynchronize.
type ConflictError struct {
	Message string
	From    string
	To      string
}

func (e *ConflictError) Error() string {
	if e.From != "" || e.To != "" {
		return fmt.Sprintf("%s: transition from %q to %q is not allowed", e.Message, e.From, e.To)
	}
	return e.Message
}

// ForbiddenError signals that the acting user lacks permission for the target
// operation or transition.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// UnavailableError signals an external collaborator failure (payment gateway
// timeout, catalog unreachable) after retries were exhausted.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Constructors

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a disallowed state-machine transition naming the
// (from, to) pair.
func InvalidTransition(subject, from, to string) error {
	return &ConflictError{
		Message: fmt.Sprintf("invalid %s status transition", subject),
		From:    from,
		To:      to,
	}
}

func Forbidden(format string, args ...interface{}) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

func Unavailable(message string, err error) error {
	return &UnavailableError{Message: message, Err: err}
}

// Classification helpers

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// HTTPStatus maps an error to its HTTP status code. Unknown errors map to 500
// and their detail must not be leaked to the client.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsForbidden(err):
		return http.StatusForbidden
	case IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
