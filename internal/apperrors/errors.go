// Package apperrors defines the error taxonomy shared by the ingestion core
// and the HTTP layer. Row-scoped errors (validation, not-found) are recovered
// by the coordinator; storage errors abort the in-flight batch.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError marks a missing or invalid required field. It is recorded
// per row and never aborts a batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a referenced entity that is absent, e.g. a price
// recorded against a product that vanished mid-batch.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// StorageError wraps a failure at the storage layer. It is fatal to the
// in-flight batch and propagates to the caller after rollback.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
