package applications

import "errors"

var (
	// ErrNotFound indicates the application does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidInput indicates the request failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
