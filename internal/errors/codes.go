// Package errors provides structured error handling for setscout.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO and container decode errors
//   - 3XX: Catalog store errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file, disk, and container decode errors.
	CategoryIO Category = "IO"
	// CategoryStore indicates catalog store errors.
	CategoryStore Category = "STORE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO and decode errors (200-299)
	ErrCodeFileNotFound        = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission      = "ERR_202_FILE_PERMISSION"
	ErrCodeDecompressionFailed = "ERR_203_DECOMPRESSION_FAILED"
	ErrCodeInvalidText         = "ERR_204_INVALID_TEXT"
	ErrCodeFileTooLarge        = "ERR_205_FILE_TOO_LARGE"

	// Store errors (300-399)
	ErrCodeStoreUnavailable = "ERR_301_STORE_UNAVAILABLE"
	ErrCodeStoreCorrupt     = "ERR_302_STORE_CORRUPT"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeNotFound     = "ERR_402_NOT_FOUND"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeScanRunning = "ERR_502_SCAN_RUNNING"
)

// categoryFromCode derives the category from the error code prefix.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryStore
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from the error code.
// Store and internal errors abort a scan; decode errors are terminal
// for a single file only.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeStoreUnavailable, ErrCodeStoreCorrupt, ErrCodeInternal:
		return SeverityFatal
	case ErrCodeFileNotFound, ErrCodeDecompressionFailed, ErrCodeInvalidText:
		return SeverityWarning
	default:
		return SeverityError
	}
}
