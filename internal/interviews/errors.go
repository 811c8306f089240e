package interviews

import "errors"

var (
	// ErrNotFound indicates the interview does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("interview not found")

	// ErrInvalidInput indicates the request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrApplicationNotFound indicates the linked job application does not
	// exist for the user.
	ErrApplicationNotFound = errors.New("application not found")
)
