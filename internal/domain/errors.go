package domain

import "fmt"

// StorageWriteError means the asset write failed; the submission must stop
// before anything is persisted.
type StorageWriteError struct {
	Bucket string
	Key    string
	Cause  error
}

func (e StorageWriteError) Error() string {
	return fmt.Sprintf("storage write to %s/%s failed: %v", e.Bucket, e.Key, e.Cause)
}

func (e StorageWriteError) Unwrap() error { return e.Cause }

// Is enables errors.Is matching on StorageWriteError.
func (e StorageWriteError) Is(target error) bool {
	_, ok := target.(StorageWriteError)
	if ok {
		return true
	}
	_, ok = target.(*StorageWriteError)
	return ok
}

// ErrStorageWrite is the sentinel for asset write failures.
var ErrStorageWrite = StorageWriteError{}

// PersistenceError means the record insert failed. The asset, if any, was
// already stored by then.
type PersistenceError struct {
	Cause error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("record insert failed: %v", e.Cause)
}

func (e PersistenceError) Unwrap() error { return e.Cause }

func (e PersistenceError) Is(target error) bool {
	_, ok := target.(PersistenceError)
	if ok {
		return true
	}
	_, ok = target.(*PersistenceError)
	return ok
}

// ErrPersistence is the sentinel for record insert failures.
var ErrPersistence = PersistenceError{}

// ValidationError means a required field is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "invalid submission"
	}
	return fmt.Sprintf("invalid submission: %s %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel for submission validation failures.
var ErrValidation = ValidationError{}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}
