// Package report reads PMD violation reports into domain.ReportDocument.
// Two encodings are understood: the PMD XML report and its JSON
// conversion (attributes under "$", element text under "_").
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/constants"
)

// Format identifies a report encoding
type Format string

const (
	FormatAuto Format = ""
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// DefaultMaxReportSize bounds how much of a report is read
const DefaultMaxReportSize = 64 << 20

// FormatFromPath returns the format implied by a file extension, or FormatAuto
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ReportExtXML:
		return FormatXML
	case constants.ReportExtJSON:
		return FormatJSON
	}
	return FormatAuto
}

// DetectFormat guesses the encoding from the first significant byte
func DetectFormat(data []byte) (Format, error) {
	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatAuto, domain.NewMalformedReportError("report is empty", nil)
	}
	switch trimmed[0] {
	case '<':
		return FormatXML, nil
	case '{':
		return FormatJSON, nil
	}
	return FormatAuto, fmt.Errorf("cannot detect report format: unexpected leading %q", trimmed[0])
}

// Parse reads a report from r. With FormatAuto the encoding is detected
// from the content. The returned document has already been validated.
func Parse(r io.Reader, format Format) (*domain.ReportDocument, error) {
	data, err := io.ReadAll(io.LimitReader(r, DefaultMaxReportSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	if len(data) > DefaultMaxReportSize {
		return nil, fmt.Errorf("report exceeds %d bytes", DefaultMaxReportSize)
	}
	return ParseBytes(data, format)
}

// ParseBytes parses an in-memory report
func ParseBytes(data []byte, format Format) (*domain.ReportDocument, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(data)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	var (
		doc *domain.ReportDocument
		err error
	)
	switch format {
	case FormatXML:
		doc, err = parseXML(data)
	case FormatJSON:
		doc, err = parseJSON(data)
	default:
		return nil, domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile parses the report at path, choosing the format by extension
// and falling back to content detection
func ParseFile(path string) (*domain.ReportDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, FormatFromPath(path))
}

// Loader implements domain.ReportLoader on the local file system
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a report loader
func NewLoader() *Loader {
	return &Loader{logger: slog.Default()}
}

// Load reads and parses the report at path.
// Shape problems are returned as *domain.MalformedReportError; missing
// files and undecodable content as domain errors.
func (l *Loader) Load(ctx context.Context, path string) (*domain.ReportDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError("cannot access report "+path, err)
	}
	if info.IsDir() {
		return nil, domain.NewInvalidInputError(path+" is a directory", nil)
	}

	doc, err := ParseFile(path)
	if err != nil {
		if domain.IsMalformedReport(err) {
			return nil, err
		}
		return nil, domain.NewParseError(path, err)
	}

	l.logger.Debug("Parsed report",
		"path", path,
		"files", len(doc.Files),
		"violations", doc.CountViolations())
	return doc, nil
}
