package errors

import "errors"

var (
	ErrChannelNotFound = errors.New("messaging channel not found")

	ErrInvalidID = errors.New("invalid booking ID format")
)
