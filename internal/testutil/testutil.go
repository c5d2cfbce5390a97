// Package testutil provides helper functions for testing pmdview components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/pmdview/domain"
)

// SampleXML is a small PMD report with two files (Foo.java: 2, Bar.java: 1)
const SampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<pmd version="6.55.0" timestamp="2024-01-15T10:00:00.000">
<file name="src/Foo.java">
<violation beginline="30" endline="30" begincolumn="5" endcolumn="20" rule="UnusedLocalVariable" ruleset="Best Practices" class="Foo" priority="3">
Avoid unused local variables such as 'x'.
</violation>
<violation beginline="10" endline="12" begincolumn="1" endcolumn="2" rule="MissingJavadoc" ruleset="Documentation" class="Foo" priority="3">
Missing javadoc
</violation>
</file>
<file name="src/Bar.java">
<violation beginline="20" endline="20" begincolumn="9" endcolumn="14" rule="ShortVariable" ruleset="Code Style" class="Bar" priority="3">
Avoid variables with short names like i
</violation>
</file>
</pmd>
`

// SampleJSON is SampleXML converted with the "$" attribute / "_" text convention
const SampleJSON = `{
  "pmd": {
    "$": {"version": "6.55.0", "timestamp": "2024-01-15T10:00:00.000"},
    "file": [
      {
        "$": {"name": "src/Foo.java"},
        "violation": [
          {"$": {"beginline": "30", "class": "Foo", "rule": "UnusedLocalVariable"}, "_": "Avoid unused local variables such as 'x'."},
          {"$": {"beginline": "10", "class": "Foo", "rule": "MissingJavadoc"}, "_": "Missing javadoc"}
        ]
      },
      {
        "$": {"name": "src/Bar.java"},
        "violation": [
          {"$": {"beginline": "20", "class": "Bar", "rule": "ShortVariable"}, "_": "Avoid variables with short names like i"}
        ]
      }
    ]
  }
}
`

// Entry creates a violation entry
func Entry(class string, line int, message string) domain.ViolationEntry {
	return domain.ViolationEntry{Class: class, BeginLine: line, Message: message}
}

// File creates a file entry owning the given violations
func File(name string, violations ...domain.ViolationEntry) domain.FileEntry {
	return domain.FileEntry{Name: name, Violations: violations}
}

// Document creates a report document; with no files it is a valid empty report
func Document(files ...domain.FileEntry) *domain.ReportDocument {
	if files == nil {
		files = []domain.FileEntry{}
	}
	return &domain.ReportDocument{Files: files}
}

// Records creates violation records in the given order, all in file "F.java"
func Records(lines ...int) []domain.Violation {
	records := make([]domain.Violation, 0, len(lines))
	for _, line := range lines {
		records = append(records, domain.NewViolation("F.java", "F", line, "message"))
	}
	return records
}

// Lines extracts the beginning lines of records in order
func Lines(records []domain.Violation) []int {
	lines := make([]int, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.BeginningLine)
	}
	return lines
}

// WriteReport writes content to dir/name and returns the path
func WriteReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	return path
}
