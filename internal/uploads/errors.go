package uploads

import "errors"

var (
	// ErrNotFound indicates the upload does not exist or is not visible to
	// the requesting user.
	ErrNotFound = errors.New("upload not found")

	// ErrInvalidInput indicates the request failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFile indicates the file is not a readable PDF or DOCX.
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrTooLarge indicates the file exceeds the upload size limit.
	ErrTooLarge = errors.New("file too large")
)
