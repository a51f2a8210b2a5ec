package catalog

import "errors"

var (
	// ErrDuplicate indicates a Put for a code that already exists. The store
	// keeps the first record; re-ingesting the same upload is not an error the
	// operator needs to act on.
	ErrDuplicate = errors.New("episode code already exists")

	// ErrNotFound indicates a Delete or Update for a code with no record.
	ErrNotFound = errors.New("episode not found")
)
