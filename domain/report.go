package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ReportDocument is the typed, in-memory form of a PMD style report.
// A nil Files slice means the report has no file collection at all;
// an empty slice is a valid report without findings.
type ReportDocument struct {
	Version   string      `json:"version,omitempty" yaml:"version,omitempty"`
	Timestamp string      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Files     []FileEntry `json:"files" yaml:"files" validate:"dive"`
}

// FileEntry groups the violations reported against one source file
type FileEntry struct {
	Name       string           `json:"name" yaml:"name" validate:"required"`
	Violations []ViolationEntry `json:"violations" yaml:"violations" validate:"dive"`
}

// ViolationEntry is one violation as it appears in the report
type ViolationEntry struct {
	Class     string `json:"class" yaml:"class"`
	BeginLine int    `json:"begin_line" yaml:"begin_line" validate:"gte=1"`
	Message   string `json:"message" yaml:"message"`
}

// CountViolations returns the number of violation entries across all files
func (d *ReportDocument) CountViolations() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, f := range d.Files {
		total += len(f.Violations)
	}
	return total
}

var documentValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the document has the minimal shape needed to flatten it.
// Every problem is reported in a single MalformedReportError.
func (d *ReportDocument) Validate() error {
	if d == nil {
		return NewMalformedReportError("report document is missing", nil)
	}
	if d.Files == nil {
		return NewMalformedReportError("report has no file collection", nil)
	}

	err := documentValidator.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewMalformedReportError("report validation failed", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, describeFieldError(fe))
	}
	return &MalformedReportError{
		Message:  "report is malformed",
		Problems: problems,
		Cause:    err,
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Namespace(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}
