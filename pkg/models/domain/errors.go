package domain

import (
	"fmt"
)

// UpstreamFetchError is returned when the provider API could not be queried for a category.
type UpstreamFetchError struct {
	Category Category
	Err      error
}

func NewUpstreamFetchError(category Category, err error) *UpstreamFetchError {
	return &UpstreamFetchError{Category: category, Err: err}
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// MalformedRecordError is returned by normalizers for records that cannot be keyed.
type MalformedRecordError struct {
	Category Category
	Field    string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s record: field %s: %v", e.Category, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s record: missing %s", e.Category, e.Field)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// PersistenceConnectionError aborts the remaining rows of a persist run.
// Cost facts committed before the failure stay in place.
type PersistenceConnectionError struct {
	Err error
}

func (e *PersistenceConnectionError) Error() string {
	return fmt.Sprintf("storage connection: %v", e.Err)
}

func (e *PersistenceConnectionError) Unwrap() error {
	return e.Err
}

// PersistenceRowError marks a single rejected insert.
type PersistenceRowError struct {
	Table string
	Key   string
	Err   error
}

func (e *PersistenceRowError) Error() string {
	return fmt.Sprintf("insert into %s (%s): %v", e.Table, e.Key, e.Err)
}

func (e *PersistenceRowError) Unwrap() error {
	return e.Err
}
