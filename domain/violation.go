package domain

import "fmt"

// Violation is a single rule violation attributed to one source file.
// Values are never modified after construction; sorting works on copies.
type Violation struct {
	FileName      string `json:"file_name" yaml:"file_name"`
	ClassName     string `json:"class_name" yaml:"class_name"`
	BeginningLine int    `json:"beginning_line" yaml:"beginning_line"`
	Description   string `json:"description" yaml:"description"`
}

// NewViolation creates a violation record
func NewViolation(fileName, className string, beginningLine int, description string) Violation {
	return Violation{
		FileName:      fileName,
		ClassName:     className,
		BeginningLine: beginningLine,
		Description:   description,
	}
}

// Location returns the file:line form used in log and text output
func (v Violation) Location() string {
	return fmt.Sprintf("%s:%d", v.FileName, v.BeginningLine)
}

// Column identifies a sortable table column
type Column string

const (
	ColumnClassName   Column = "className"
	ColumnLineNumber  Column = "lineNumber"
	ColumnDescription Column = "description"
)

// Columns returns the sortable columns in display order
func Columns() []Column {
	return []Column{ColumnClassName, ColumnLineNumber, ColumnDescription}
}

// IsValid reports whether c is one of the known sortable columns
func (c Column) IsValid() bool {
	switch c {
	case ColumnClassName, ColumnLineNumber, ColumnDescription:
		return true
	}
	return false
}

// Label returns the human readable header for the column
func (c Column) Label() string {
	switch c {
	case ColumnClassName:
		return "Class name"
	case ColumnLineNumber:
		return "Line number"
	case ColumnDescription:
		return "Error message"
	default:
		return string(c)
	}
}

// ParseColumn converts a user supplied column identifier into a Column.
// Both the header ids and a few short aliases are accepted.
func ParseColumn(s string) (Column, error) {
	switch s {
	case "className", "class", "class-name", "class_name":
		return ColumnClassName, nil
	case "lineNumber", "line", "line-number", "line_number":
		return ColumnLineNumber, nil
	case "description", "message", "desc":
		return ColumnDescription, nil
	}
	return "", &SortKeyError{Column: Column(s)}
}

// Direction is the order a sort request applies
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)
