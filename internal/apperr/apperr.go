// Package apperr holds the error taxonomy shared by the pipeline, callers should test
// for a kind with the Is* helpers rather than comparing messages.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a referenced website, report or tracked entity does
// not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// UpstreamError is returned when the search provider fails or times out, StatusCode
// is 0 when no response was received.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream: %v", e.Err)
	}
	return fmt.Sprintf("upstream: status %d: %v", e.StatusCode, e.Err)
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}

// DeliveryError is returned when the email transport rejects a message.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %q: %v", e.Recipient, e.Err)
}

func (e DeliveryError) Unwrap() error {
	return e.Err
}

// ValidationError is returned before any side effect when required input is missing
// or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NotFound(entity string, id any) error {
	return NotFoundError{Entity: entity, ID: id}
}

func Upstream(statusCode int, err error) error {
	return UpstreamError{StatusCode: statusCode, Err: err}
}

func Delivery(recipient string, err error) error {
	return DeliveryError{Recipient: recipient, Err: err}
}

func Invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsDelivery(err error) bool {
	var target DeliveryError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
