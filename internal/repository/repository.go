package repository

import "errors"

// ErrNotFound is returned by save operations when the row to update no longer exists.
var ErrNotFound = errors.New("row not found")
