package dao

import "errors"

// ErrNotFound is returned when a requested record does not exist. Routes map
// it to a 404 instead of letting gorm's error (or a nil deref) leak out.
var ErrNotFound = errors.New("record not found")
