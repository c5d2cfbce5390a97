package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatHTML OutputFormat = "html"
	OutputFormatXLSX OutputFormat = "xlsx"
)

// OutputFormats lists every supported format
func OutputFormats() []OutputFormat {
	return []OutputFormat{
		OutputFormatText,
		OutputFormatJSON,
		OutputFormatYAML,
		OutputFormatCSV,
		OutputFormatHTML,
		OutputFormatXLSX,
	}
}

// IsValid reports whether f is a supported format
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// Extension returns the file extension used when writing f to disk
func (f OutputFormat) Extension() string {
	if f == OutputFormatText {
		return ".txt"
	}
	return "." + string(f)
}

// IsBinary reports whether the format cannot be written to a terminal
func (f OutputFormat) IsBinary() bool {
	return f == OutputFormatXLSX
}

// ViewRequest represents a request to display one report
type ViewRequest struct {
	// Report to open. Empty means "open the last file" when UseLastFile is set.
	ReportPath  string
	UseLastFile bool

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	// Sort clicks replayed in order against a fresh session
	SortClicks []Column

	// Locale for string comparison (BCP 47 tag)
	Locale string
}

// ViewResponse describes what a view request displayed
type ViewResponse struct {
	Loaded     bool   `json:"loaded" yaml:"loaded"`
	SessionID  string `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Table      Table  `json:"table" yaml:"table"`
}

// ExportRequest represents a batch conversion of reports
type ExportRequest struct {
	Paths            []string
	Recursive        bool
	ExcludePatterns  []string
	RespectGitignore bool
	OutputFormat     OutputFormat
	OutputDir        string
	SortClicks       []Column
	Locale           string
}

// ExportResult is the outcome of exporting one report
type ExportResult struct {
	ReportPath string `json:"report_path" yaml:"report_path"`
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Violations int    `json:"violations" yaml:"violations"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ExportResponse summarizes a batch export
type ExportResponse struct {
	Results   []ExportResult `json:"results" yaml:"results"`
	Succeeded int            `json:"succeeded" yaml:"succeeded"`
	Failed    int            `json:"failed" yaml:"failed"`
}

// ReportLoader reads and parses a report into a typed document
type ReportLoader interface {
	Load(ctx context.Context, path string) (*ReportDocument, error)
}

// TableWriter writes a rendered table in the given format
type TableWriter interface {
	Write(table Table, meta TableMeta, format OutputFormat, writer io.Writer) error
}

// LastFileStore remembers the most recently opened report
type LastFileStore interface {
	// Load returns the last opened path, or "" if there is none
	Load() (string, error)
	Save(path string) error
}

// ProgressManager creates progress indicators for long running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
