package resumes

import "errors"

var (
	// ErrNotFound indicates the resume record does not exist or is not
	// visible to the requesting user.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates the request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTemplateNotFound indicates the referenced template does not exist
	// for the user.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrApplicationNotFound indicates the referenced job application does
	// not exist for the user.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrVersionConflict indicates a concurrent generation claimed the same
	// version number for the (user, name) lineage.
	ErrVersionConflict = errors.New("version conflict")
)
