package domain

import (
	"errors"
	"strings"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{Code: "TEST_ERROR", Message: "Test message"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"invalid input", NewInvalidInputError("bad input", nil), ErrCodeInvalidInput, "bad input"},
		{"file not found", NewFileNotFoundError("/path/to/report.xml", nil), ErrCodeFileNotFound, "file not found: /path/to/report.xml"},
		{"parse", NewParseError("pmd.xml", errors.New("eof")), ErrCodeParseError, "failed to parse report: pmd.xml"},
		{"config", NewConfigError("invalid config", nil), ErrCodeConfigError, "invalid config"},
		{"output", NewOutputError("write failed", nil), ErrCodeOutputError, "write failed"},
		{"unsupported format", NewUnsupportedFormatError("pdf"), ErrCodeUnsupportedFormat, "unsupported format: pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domainErr, ok := tt.err.(DomainError)
			if !ok {
				t.Fatalf("Expected DomainError, got %T", tt.err)
			}
			if domainErr.Code != tt.code {
				t.Errorf("Expected code '%s', got '%s'", tt.code, domainErr.Code)
			}
			if domainErr.Message != tt.message {
				t.Errorf("Expected message '%s', got '%s'", tt.message, domainErr.Message)
			}
		})
	}
}

func TestMalformedReportError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewMalformedReportError("report has no file collection", cause)

	if !strings.Contains(err.Error(), ErrCodeMalformedReport) {
		t.Errorf("Error should carry its code, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}

	wrapped := NewParseError("pmd.xml", err)
	if !IsMalformedReport(wrapped) {
		t.Error("IsMalformedReport should see through DomainError")
	}

	withProblems := &MalformedReportError{
		Message:  "report is malformed",
		Problems: []string{"a is required", "b must be >= 1"},
	}
	if !strings.Contains(withProblems.Error(), "a is required; b must be >= 1") {
		t.Errorf("Problems should be joined, got %q", withProblems.Error())
	}
}

func TestSortKeyError(t *testing.T) {
	err := error(&SortKeyError{Column: "severity"})
	if !IsSortKeyError(err) {
		t.Fatal("IsSortKeyError should match")
	}
	if !strings.Contains(err.Error(), `"severity"`) {
		t.Errorf("Error should name the column, got %q", err.Error())
	}

	dirErr := &SortKeyError{Column: ColumnLineNumber, Direction: "sideways"}
	if !strings.Contains(dirErr.Error(), "sideways") {
		t.Errorf("Error should name the direction, got %q", dirErr.Error())
	}
}

// Column tests

func TestColumn_Constants(t *testing.T) {
	columns := map[Column]string{
		ColumnClassName:   "className",
		ColumnLineNumber:  "lineNumber",
		ColumnDescription: "description",
	}

	for c, expected := range columns {
		if string(c) != expected {
			t.Errorf("Column %s should equal '%s'", c, expected)
		}
		if !c.IsValid() {
			t.Errorf("Column %s should be valid", c)
		}
	}

	if Column("severity").IsValid() {
		t.Error("Unknown column should not be valid")
	}
	if len(Columns()) != 3 {
		t.Errorf("Expected 3 columns, got %d", len(Columns()))
	}
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		input    string
		expected Column
		wantErr  bool
	}{
		{"className", ColumnClassName, false},
		{"class", ColumnClassName, false},
		{"lineNumber", ColumnLineNumber, false},
		{"line", ColumnLineNumber, false},
		{"description", ColumnDescription, false},
		{"message", ColumnDescription, false},
		{"severity", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseColumn(tt.input)
		if tt.wantErr {
			if !IsSortKeyError(err) {
				t.Errorf("ParseColumn(%q) expected SortKeyError, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColumn(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseColumn(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestColumn_Label(t *testing.T) {
	if ColumnClassName.Label() != "Class name" {
		t.Errorf("Unexpected label %q", ColumnClassName.Label())
	}
	if ColumnLineNumber.Label() != "Line number" {
		t.Errorf("Unexpected label %q", ColumnLineNumber.Label())
	}
	if ColumnDescription.Label() != "Error message" {
		t.Errorf("Unexpected label %q", ColumnDescription.Label())
	}
}

// Output format tests

func TestOutputFormat(t *testing.T) {
	for _, f := range OutputFormats() {
		if !f.IsValid() {
			t.Errorf("Format %s should be valid", f)
		}
	}
	if OutputFormat("dot").IsValid() {
		t.Error("dot should not be a valid format")
	}
	if OutputFormatText.Extension() != ".txt" {
		t.Errorf("Unexpected text extension %q", OutputFormatText.Extension())
	}
	if OutputFormatXLSX.Extension() != ".xlsx" {
		t.Errorf("Unexpected xlsx extension %q", OutputFormatXLSX.Extension())
	}
	if !OutputFormatXLSX.IsBinary() || OutputFormatHTML.IsBinary() {
		t.Error("Only xlsx should be binary")
	}
}

// Report document tests

func TestReportDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *ReportDocument
		wantErr bool
		problem string
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name:    "missing file collection",
			doc:     &ReportDocument{},
			wantErr: true,
		},
		{
			name: "empty file collection",
			doc:  &ReportDocument{Files: []FileEntry{}},
		},
		{
			name: "file without violations",
			doc:  &ReportDocument{Files: []FileEntry{{Name: "Foo.java"}}},
		},
		{
			name: "unnamed file",
			doc: &ReportDocument{Files: []FileEntry{
				{Name: "Foo.java"},
				{Name: ""},
			}},
			wantErr: true,
			problem: "Files[1].Name is required",
		},
		{
			name: "zero begin line",
			doc: &ReportDocument{Files: []FileEntry{
				{Name: "Foo.java", Violations: []ViolationEntry{{Class: "Foo", BeginLine: 0}}},
			}},
			wantErr: true,
			problem: "Files[0].Violations[0].BeginLine must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if !IsMalformedReport(err) {
				t.Fatalf("Expected MalformedReportError, got %v", err)
			}
			if tt.problem != "" && !strings.Contains(err.Error(), tt.problem) {
				t.Errorf("Expected %q in %q", tt.problem, err.Error())
			}
		})
	}
}

func TestReportDocument_CountViolations(t *testing.T) {
	doc := &ReportDocument{Files: []FileEntry{
		{Name: "Foo.java", Violations: []ViolationEntry{{BeginLine: 1}, {BeginLine: 2}}},
		{Name: "Empty.java"},
		{Name: "Bar.java", Violations: []ViolationEntry{{BeginLine: 3}}},
	}}
	if doc.CountViolations() != 3 {
		t.Errorf("Expected 3 violations, got %d", doc.CountViolations())
	}

	var nilDoc *ReportDocument
	if nilDoc.CountViolations() != 0 {
		t.Error("Nil document should count 0")
	}
}

// Table tests

func TestTable_Lookup(t *testing.T) {
	table := Table{
		Columns: []ColumnHeader{{ID: ColumnLineNumber, Label: "Line number"}},
		Rows: []Row{{
			FileName: "Foo.java",
			Cells:    []Cell{{Column: ColumnLineNumber, Text: "12"}},
		}},
	}

	header, ok := table.Header(ColumnLineNumber)
	if !ok || header.Label != "Line number" {
		t.Errorf("Header lookup failed: %+v %v", header, ok)
	}
	if _, ok := table.Header(ColumnClassName); ok {
		t.Error("Missing header should not be found")
	}
	if table.Rows[0].Cell(ColumnLineNumber) != "12" {
		t.Errorf("Unexpected cell %q", table.Rows[0].Cell(ColumnLineNumber))
	}
	if table.Rows[0].Cell(ColumnDescription) != "" {
		t.Error("Missing cell should be empty")
	}
	if table.IsEmpty() {
		t.Error("Table with rows should not be empty")
	}
}

func TestViolation_Location(t *testing.T) {
	v := NewViolation("src/Foo.java", "Foo", 42, "Missing javadoc")
	if v.Location() != "src/Foo.java:42" {
		t.Errorf("Unexpected location %q", v.Location())
	}
}
