package services

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input: bad identifiers, missing or
// disallowed fields, bad dates, pagination out of bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// NotFoundOrUnauthorizedError is returned both when a row is missing and when
// it belongs to someone else, so callers cannot probe for existence.
type NotFoundOrUnauthorizedError struct {
	Resource  string
	Message   string
	Forbidden bool
}

func (e *NotFoundOrUnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource, message string) error {
	return &NotFoundOrUnauthorizedError{Resource: resource, Message: message}
}

func NewForbiddenError(resource, message string) error {
	return &NotFoundOrUnauthorizedError{Resource: resource, Message: message, Forbidden: true}
}

func IsNotFoundOrUnauthorized(err error) bool {
	var nfErr *NotFoundOrUnauthorizedError
	return errors.As(err, &nfErr)
}

// StorageError wraps a relational or blob store failure. The message of the
// cause is passed through as is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsStorageError(err) || IsValidationError(err) || IsNotFoundOrUnauthorized(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var stErr *StorageError
	return errors.As(err, &stErr)
}
