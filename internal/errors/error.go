// Package errors provides the typed failures of product operations.
// Every failure is terminal for the user action that triggered it; none is retried.
package errors

import (
	"errors"
	"fmt"
)

// ErrProductNotFound matches every NotFoundError via errors.Is.
var ErrProductNotFound = errors.New("product not found")

// StatusFailure carries what the products API answered, or the transport error when
// there was no answer (Status 0).
type StatusFailure struct {
	Status int
	Reason string
	Err    error
}

// Detail is the human-readable part shown to users: "<status> <reason>", or the cause.
func (f StatusFailure) Detail() string {
	switch {
	case f.Status != 0 && f.Reason != "":
		return fmt.Sprintf("%d %s", f.Status, f.Reason)
	case f.Status != 0:
		return fmt.Sprintf("%d", f.Status)
	case f.Err != nil:
		return f.Err.Error()
	default:
		return "unknown error"
	}
}

// FetchError reports a failed listing of the collection.
type FetchError struct{ StatusFailure }

func (e *FetchError) Error() string { return "failed to fetch products: " + e.Detail() }
func (e *FetchError) Unwrap() error { return e.Err }

// CreateError reports a rejected create.
type CreateError struct{ StatusFailure }

func (e *CreateError) Error() string { return "failed to create product: " + e.Detail() }
func (e *CreateError) Unwrap() error { return e.Err }

// UpdateError reports a rejected replace.
type UpdateError struct{ StatusFailure }

func (e *UpdateError) Error() string { return "failed to update product: " + e.Detail() }
func (e *UpdateError) Unwrap() error { return e.Err }

// DeleteError reports a failed delete other than 404.
type DeleteError struct{ StatusFailure }

func (e *DeleteError) Error() string { return "failed to delete product: " + e.Detail() }
func (e *DeleteError) Unwrap() error { return e.Err }

// NotFoundError reports a product id the API does not know, or a lookup that failed.
type NotFoundError struct {
	ID string
	StatusFailure
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found: %s", e.ID, e.Detail())
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProductNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// ValidationError reports input rejected before any request was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Describe turns any error of this package into the text shown in a notification.
func Describe(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		fetchErr      *FetchError
		createErr     *CreateError
		updateErr     *UpdateError
		deleteErr     *DeleteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &notFoundErr):
		return "Product not found."
	case errors.As(err, &fetchErr):
		return fetchErr.Detail()
	case errors.As(err, &createErr):
		return createErr.Detail()
	case errors.As(err, &updateErr):
		return updateErr.Detail()
	case errors.As(err, &deleteErr):
		return deleteErr.Detail()
	default:
		return err.Error()
	}
}
