package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/testutil"
	"github.com/ludo-technologies/pmdview/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func sampleTable() (domain.Table, domain.TableMeta) {
	table := viewer.BuildTable([]domain.Violation{
		domain.NewViolation("src/Foo.java", "Foo", 30, "Avoid unused\n    local variables"),
		domain.NewViolation("src/Foo.java", "Foo", 10, "Missing javadoc"),
		domain.NewViolation("src/Bar.java", "Bar", 20, "<b>Short</b> name & more"),
	})
	meta := domain.TableMeta{
		SessionID:   "session-1",
		Source:      "pmd.xml",
		GeneratedAt: "2026-10-18T10:00:00Z",
		Version:     "1.0.0",
		TotalFiles:  2,
		LastSort:    &domain.SortApplied{Column: domain.ColumnLineNumber, Direction: domain.Descending},
	}
	return table, meta
}

func newTestFormatter() *OutputFormatterImpl {
	f := NewOutputFormatter()
	f.now = func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]interface{}{"name": "test", "value": 42}))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "test", result["name"])
}

func TestOutputFormatter_Text(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer

	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, "=== Violations ===")
	assert.Contains(t, out, "Report: pmd.xml")
	assert.Contains(t, out, "Sorted by: Line number (descending)")
	assert.Contains(t, out, "Avoid unused local variables", "whitespace is collapsed for display")
	assert.Contains(t, out, "Class name")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "src/Bar.java"), "rows keep table order, got %q", last)
}

func TestOutputFormatter_TextKeepsWhitespaceWhenAsked(t *testing.T) {
	table, meta := sampleTable()
	f := newTestFormatter()
	f.SetCollapseWhitespace(false)

	table.Rows = append(table.Rows, domain.Row{
		FileName: "src/Tab.java",
		Cells: []domain.Cell{
			{Column: domain.ColumnClassName, Text: "Tab"},
			{Column: domain.ColumnLineNumber, Text: "5"},
			{Column: domain.ColumnDescription, Text: "split\there"},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, f.Write(table, meta, domain.OutputFormatText, &buf))
	out := buf.String()
	assert.Contains(t, out, `Avoid unused\n    local variables`)
	assert.Contains(t, out, `split\there`)

	// header plus one line per row, all starting their columns at the same offsets
	var tableLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "File ") || strings.HasPrefix(line, "src/") {
			tableLines = append(tableLines, line)
		}
	}
	require.Len(t, tableLines, 5)
	header := tableLines[0]
	offset := strings.Index(header, "Line number")
	for _, line := range tableLines[1:] {
		assert.NotEqual(t, byte(' '), line[offset], "line column misaligned in %q", line)
		assert.Equal(t, byte(' '), line[offset-1], "line column misaligned in %q", line)
	}
}

func TestOutputFormatter_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(viewer.BuildTable(nil), domain.TableMeta{}, domain.OutputFormatText, &buf))
	assert.Contains(t, buf.String(), "No violations found.")
}

func TestOutputFormatter_JSON(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatJSON, &buf))

	var doc TableDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.TotalViolations)
	assert.Equal(t, "session-1", doc.Meta.SessionID)
	assert.Equal(t, table, doc.Table)
	assert.Equal(t, "Avoid unused\n    local variables", doc.Table.Rows[0].Cell(domain.ColumnDescription),
		"structured output keeps the raw message")
}

func TestOutputFormatter_JSONFillsMeta(t *testing.T) {
	table, _ := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, domain.TableMeta{}, domain.OutputFormatJSON, &buf))

	var doc TableDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2026-10-18T10:00:00Z", doc.Meta.GeneratedAt)
	assert.NotEmpty(t, doc.Meta.Version)
}

func TestOutputFormatter_JSONEmptyRowsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(domain.Table{Title: "Violations"}, domain.TableMeta{}, domain.OutputFormatJSON, &buf))
	assert.Contains(t, buf.String(), `"rows": []`)
}

func TestOutputFormatter_YAML(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatYAML, &buf))

	var doc TableDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.TotalViolations)
	require.NotNil(t, doc.Meta.LastSort)
	assert.Equal(t, domain.Descending, doc.Meta.LastSort.Direction)
	assert.Equal(t, "Missing javadoc", doc.Table.Rows[1].Cell(domain.ColumnDescription))
}

func TestOutputFormatter_CSV(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"fileName", "className", "lineNumber", "description"}, records[0])
	assert.Equal(t, []string{"src/Foo.java", "Foo", "30", "Avoid unused\n    local variables"}, records[1])
	assert.Equal(t, "<b>Short</b> name & more", records[3][3])
}

func TestOutputFormatter_HTML(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatHTML, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	for _, col := range domain.Columns() {
		th := doc.Find("th#" + string(col))
		require.Equal(t, 1, th.Length(), "header for %s", col)
		sortCol, ok := th.Attr("data-sort-column")
		assert.True(t, ok)
		assert.Equal(t, string(col), sortCol)
		assert.Equal(t, col.Label(), strings.TrimSpace(th.Text()))
	}

	aria, _ := doc.Find("th#lineNumber").Attr("aria-sort")
	assert.Equal(t, "descending", aria)
	aria, _ = doc.Find("th#className").Attr("aria-sort")
	assert.Equal(t, "none", aria)

	rows := doc.Find("tbody tr")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "30", strings.TrimSpace(rows.Eq(0).Find("td.lineNumber").Text()))
	file, _ := rows.Eq(2).Attr("data-file")
	assert.Equal(t, "src/Bar.java", file)

	// messages are escaped, not interpreted
	assert.Equal(t, 0, rows.Find("td.description b").Length())
	assert.Equal(t, "<b>Short</b> name & more", rows.Eq(2).Find("td.description").Text())
}

func TestOutputFormatter_HTMLCarriesSessionSortState(t *testing.T) {
	session, err := viewer.NewSession()
	require.NoError(t, err)
	_, err = session.Load("pmd.xml", testutil.Document(
		testutil.File("Foo.java",
			testutil.Entry("Foo", 30, "Unused variable"),
			testutil.Entry("", 10, "Missing javadoc"),
		),
		testutil.File("Bar.java", testutil.Entry("Bar", 20, "Short name")),
	))
	require.NoError(t, err)
	table, err := session.RequestSort(domain.ColumnLineNumber)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, session.Meta(), domain.OutputFormatHTML, &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	line := doc.Find("th#lineNumber")
	aria, _ := line.Attr("aria-sort")
	assert.Equal(t, "ascending", aria)
	next, _ := line.Attr("data-next-direction")
	assert.Equal(t, "descending", next, "the next click on a sorted column reverses it")
	next, _ = doc.Find("th#className").Attr("data-next-direction")
	assert.Equal(t, "ascending", next)

	var indexes []string
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		index, _ := tr.Attr("data-index")
		indexes = append(indexes, index)
	})
	assert.Equal(t, []string{"1", "2", "0"}, indexes)

	// the sort key of an empty class name is empty, not the file name below it
	first := doc.Find("tbody tr").First().Find("td.className")
	value, ok := first.Attr("data-value")
	assert.True(t, ok)
	assert.Equal(t, "", value)
	assert.Equal(t, "Foo.java", first.Find(".file").Text())
}

func TestOutputFormatter_HTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(viewer.BuildTable(nil), domain.TableMeta{}, domain.OutputFormatHTML, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("thead th").Length())
	assert.Equal(t, 0, doc.Find("tbody tr").Length())
	assert.Contains(t, doc.Find(".empty").Text(), "No violations found.")
}

func TestOutputFormatter_XLSX(t *testing.T) {
	table, meta := sampleTable()
	var buf bytes.Buffer
	require.NoError(t, newTestFormatter().Write(table, meta, domain.OutputFormatXLSX, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{XLSXTableSheet, XLSXInfoSheet}, book.GetSheetList())

	rows, err := book.GetRows(XLSXTableSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"File", "Class name", "Line number", "Error message"}, rows[0])
	assert.Equal(t, "Missing javadoc", rows[2][3])

	lineType, err := book.GetCellType(XLSXTableSheet, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, lineType, "line numbers are stored as numbers")

	source, err := book.GetCellValue(XLSXInfoSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "pmd.xml", source)
}

func TestOutputFormatter_UnsupportedFormat(t *testing.T) {
	table, meta := sampleTable()
	err := newTestFormatter().Write(table, meta, domain.OutputFormat("pdf"), &bytes.Buffer{})

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeOutputError, domainErr.Code)
}
