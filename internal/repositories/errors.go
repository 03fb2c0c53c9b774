package repositories

import "errors"

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint, e.g.
// two concurrent registrations of the same username reaching the store.
var ErrDuplicate = errors.New("duplicate record")
