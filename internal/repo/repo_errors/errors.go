package repo_errors

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	// ErrBrokenLink means a join table row points at a record that no longer
	// exists; reads that hit one fail as a whole.
	ErrBrokenLink = errors.New("linked record is missing")
)
