package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeMalformedReport   = "MALFORMED_REPORT"
	ErrCodeSortKey           = "SORT_KEY"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// ErrEmptySelection is returned when a file selection yields nothing.
// It is a normal outcome: callers leave the current table as it is.
var ErrEmptySelection = errors.New("no file selected")

// DomainError is the error type used by the application and service layers
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, "file not found: "+path, cause)
}

// NewParseError creates an error for a report that could not be decoded
func NewParseError(path string, cause error) error {
	return NewDomainError(ErrCodeParseError, "failed to parse report: "+path, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, "unsupported format: "+format, nil)
}

// MalformedReportError reports a document that lacks the shape needed to flatten it
type MalformedReportError struct {
	Message  string
	Problems []string
	Cause    error
}

// NewMalformedReportError creates a malformed report error
func NewMalformedReportError(message string, cause error) *MalformedReportError {
	return &MalformedReportError{Message: message, Cause: cause}
}

// Error implements the error interface
func (e *MalformedReportError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(ErrCodeMalformedReport)
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if len(e.Problems) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Problems, "; "))
	} else if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause
func (e *MalformedReportError) Unwrap() error {
	return e.Cause
}

// SortKeyError reports a sort request on a column that does not exist.
// This is an integration error between the UI and the view session.
type SortKeyError struct {
	Column    Column
	Direction Direction
}

// Error implements the error interface
func (e *SortKeyError) Error() string {
	if e.Direction != "" && e.Column.IsValid() {
		return fmt.Sprintf("[%s] unknown sort direction %q", ErrCodeSortKey, e.Direction)
	}
	return fmt.Sprintf("[%s] unknown sort column %q (must be one of: className, lineNumber, description)",
		ErrCodeSortKey, e.Column)
}

// IsMalformedReport reports whether err is or wraps a MalformedReportError
func IsMalformedReport(err error) bool {
	var target *MalformedReportError
	return errors.As(err, &target)
}

// IsSortKeyError reports whether err is or wraps a SortKeyError
func IsSortKeyError(err error) bool {
	var target *SortKeyError
	return errors.As(err, &target)
}
