package errors

import "errors"

var (
	ErrNotFound = errors.New("deliverable not found")

	ErrInvalidID = errors.New("invalid deliverable ID format")

	ErrVersionConflict = errors.New("deliverable was modified concurrently")
)
