package excel

import "errors"

var (
	// ErrMissingFilePath is returned when file path is not specified
	ErrMissingFilePath = errors.New("file path is required")

	// ErrSheetNotFound is returned when a referenced sheet or sheet id doesn't exist
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrInvalidRange is returned when a reference cannot address cells in the workbook
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidFileFormat is returned when the file is not a valid Excel file
	ErrInvalidFileFormat = errors.New("invalid Excel file format")
)
