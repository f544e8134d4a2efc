package upload

import "errors"

var (
	// ErrEmptyFile indicates the uploaded file has no content
	ErrEmptyFile = errors.New("upload: file is empty")

	// ErrInvalidEncoding indicates the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("upload: file is not valid UTF-8")

	// ErrMissingHeader indicates the file has no header row
	ErrMissingHeader = errors.New("upload: missing header row")

	// ErrNoMappedColumns indicates no header matched a known field
	ErrNoMappedColumns = errors.New("upload: no recognizable columns in header")

	// ErrUnsupportedFormat indicates the file extension is not allowed
	ErrUnsupportedFormat = errors.New("upload: unsupported file format")

	// ErrFileTooLarge indicates the file exceeds the configured size cap
	ErrFileTooLarge = errors.New("upload: file exceeds maximum size")
)
