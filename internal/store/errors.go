package store

import "errors"

var (
	// ErrDuplicateKey is returned by CreatePosting when the id is already
	// present. Re-discovery of a known posting is expected; callers treat
	// this as a dedup signal, not a failure.
	ErrDuplicateKey = errors.New("store: duplicate posting id")

	// ErrNotFound is returned when a posting id is absent. Hitting this on
	// an update of a record the pipeline itself created is a programmer
	// error, fatal to that record only.
	ErrNotFound = errors.New("store: posting not found")
)
