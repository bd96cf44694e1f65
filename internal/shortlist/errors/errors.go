package errors

import "errors"

var (
	ErrNotFound = errors.New("shortlist item not found")

	ErrInvalidID = errors.New("invalid shortlist item ID format")
)
