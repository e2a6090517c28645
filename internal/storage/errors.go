package storage

import "errors"

// ErrNotFound is returned when a requested entity does not exist or belongs to another firm.
var ErrNotFound = errors.New("storage: not found")
