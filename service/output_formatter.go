package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/version"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements domain.TableWriter
type OutputFormatterImpl struct {
	collapseWhitespace bool
	now                func() time.Time
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{
		collapseWhitespace: true,
		now:                time.Now,
	}
}

// SetCollapseWhitespace controls whether text output folds message whitespace
func (f *OutputFormatterImpl) SetCollapseWhitespace(collapse bool) {
	f.collapseWhitespace = collapse
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// TableDocument is the structured form of a table written as JSON or YAML
type TableDocument struct {
	Meta            domain.TableMeta `json:"meta" yaml:"meta"`
	TotalViolations int              `json:"total_violations" yaml:"total_violations"`
	Table           domain.Table     `json:"table" yaml:"table"`
}

// Write writes the table in the specified format
func (f *OutputFormatterImpl) Write(table domain.Table, meta domain.TableMeta, format domain.OutputFormat, writer io.Writer) error {
	meta = f.completeMeta(meta)

	var err error
	switch format {
	case domain.OutputFormatText:
		err = f.writeText(table, meta, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, f.document(table, meta))
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, f.document(table, meta))
	case domain.OutputFormatCSV:
		err = f.writeCSV(table, writer)
	case domain.OutputFormatHTML:
		err = f.WriteHTML(table, meta, writer)
	case domain.OutputFormatXLSX:
		err = f.WriteXLSX(table, meta, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}

	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

func (f *OutputFormatterImpl) completeMeta(meta domain.TableMeta) domain.TableMeta {
	if meta.GeneratedAt == "" {
		meta.GeneratedAt = f.now().Format(time.RFC3339)
	}
	if meta.Version == "" {
		meta.Version = version.GetVersion()
	}
	return meta
}

func (f *OutputFormatterImpl) document(table domain.Table, meta domain.TableMeta) TableDocument {
	if table.Rows == nil {
		table.Rows = []domain.Row{}
	}
	return TableDocument{
		Meta:            meta,
		TotalViolations: len(table.Rows),
		Table:           table,
	}
}

// writeText writes the table as aligned plain text columns
func (f *OutputFormatterImpl) writeText(table domain.Table, meta domain.TableMeta, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== %s ===\n\n", table.Title)
	if meta.Source != "" {
		fmt.Fprintf(writer, "Report: %s\n", meta.Source)
	}
	fmt.Fprintf(writer, "Files: %d  Violations: %d\n", meta.TotalFiles, len(table.Rows))
	if meta.LastSort != nil {
		fmt.Fprintf(writer, "Sorted by: %s (%s)\n", meta.LastSort.Column.Label(), meta.LastSort.Direction)
	}
	fmt.Fprintln(writer)

	if table.IsEmpty() {
		fmt.Fprintln(writer, "No violations found.")
		return nil
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	headers := []string{"File"}
	for _, h := range table.Columns {
		headers = append(headers, h.Label)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range table.Rows {
		cells := []string{f.textCell(row.FileName)}
		for _, h := range table.Columns {
			cells = append(cells, f.textCell(row.Cell(h.ID)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// cellEscaper keeps tabwriter cells on one line and in one column
var cellEscaper = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func (f *OutputFormatterImpl) textCell(text string) string {
	if f.collapseWhitespace {
		return strings.Join(strings.Fields(text), " ")
	}
	return cellEscaper.Replace(text)
}

// writeCSV writes a header with column ids followed by one record per row
func (f *OutputFormatterImpl) writeCSV(table domain.Table, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"fileName"}
	for _, h := range table.Columns {
		header = append(header, string(h.ID))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := []string{row.FileName}
		for _, h := range table.Columns {
			record = append(record, row.Cell(h.ID))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
