package db

import "errors"

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var e *DuplicateKeyError
	return errors.As(err, &e)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// ConcurrentUpdateError is returned by Commit when a record in the changeset
// was written by someone else since it was loaded.
type ConcurrentUpdateError struct {
	Collection string
	Key        string
	Message    string
}

func (e *ConcurrentUpdateError) Error() string {
	return e.Message
}

func IsConcurrentUpdateError(err error) bool {
	var e *ConcurrentUpdateError
	return errors.As(err, &e)
}
