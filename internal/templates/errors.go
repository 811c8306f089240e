package templates

import "errors"

var (
	// ErrNotFound indicates the template does not exist or is not owned by the caller.
	ErrNotFound = errors.New("template not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a template name is already taken for the user.
	ErrConflict = errors.New("template name already exists")

	// ErrTemplateInUse indicates the template is referenced by generated resumes
	// and cannot be deleted.
	ErrTemplateInUse = errors.New("template is referenced by generated resumes")
)
