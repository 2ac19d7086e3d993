// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Pipeline errors.
	ErrEmptyInput        = errors.New("no non-empty OCR lines")
	ErrInsufficientMatch = errors.New("too few lines resolved against the reference dictionary")
	ErrNoDictionary      = errors.New("reference dictionary snapshot not loaded")

	// OCR provider errors.
	ErrOCRUnavailable = errors.New("ocr provider unavailable")
)
