package core

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrImportNotFound = fmt.Errorf("%w: import", ErrNotFound)
	ErrSheetNotFound  = fmt.Errorf("%w: sheet", ErrNotFound)

	// Input errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnreadableFile    = errors.New("file could not be read")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets")
	ErrFileTooLarge      = errors.New("file exceeds upload limit")

	// Capacity errors
	ErrBusy = errors.New("import capacity exhausted")
)

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewUnsupportedFormatError names the extension that was rejected
func NewUnsupportedFormatError(filename, ext string) error {
	if ext == "" {
		return fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filename)
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, filename, ext)
}

func NewUnreadableFileError(filename string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableFile, filename, err)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err was caused by the uploaded file itself
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnreadableFile) ||
		errors.Is(err, ErrEmptyWorkbook) ||
		errors.Is(err, ErrFileTooLarge)
}
