package report

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSampleDocument(t *testing.T, doc *domain.ReportDocument) {
	t.Helper()
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "6.55.0", doc.Version)

	foo := doc.Files[0]
	assert.Equal(t, "src/Foo.java", foo.Name)
	require.Len(t, foo.Violations, 2)
	assert.Equal(t, "Foo", foo.Violations[0].Class)
	assert.Equal(t, 30, foo.Violations[0].BeginLine)
	assert.Contains(t, foo.Violations[0].Message, "Avoid unused local variables such as 'x'.")
	assert.Equal(t, 10, foo.Violations[1].BeginLine)

	bar := doc.Files[1]
	assert.Equal(t, "src/Bar.java", bar.Name)
	require.Len(t, bar.Violations, 1)
	assert.Equal(t, 20, bar.Violations[0].BeginLine)
}

func TestParse_XML(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.SampleXML), FormatXML)
	require.NoError(t, err)
	assertSampleDocument(t, doc)
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.SampleJSON), FormatJSON)
	require.NoError(t, err)
	assertSampleDocument(t, doc)
	assert.Equal(t, "Missing javadoc", doc.Files[0].Violations[1].Message)
}

func TestParse_AutoDetect(t *testing.T) {
	xmlDoc, err := Parse(strings.NewReader("\n\n"+testutil.SampleXML), FormatAuto)
	require.NoError(t, err)
	jsonDoc, err := Parse(strings.NewReader(testutil.SampleJSON), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, xmlDoc.CountViolations(), jsonDoc.CountViolations())
}

func TestParse_XMLNamespace(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<pmd xmlns="http://pmd.sourceforge.net/report/2.0.0" version="7.0.0">
<file name="A.java"><violation beginline="4" class="A">Message</violation></file>
</pmd>`

	doc, err := Parse(strings.NewReader(input), FormatXML)
	require.NoError(t, err)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, 4, doc.Files[0].Violations[0].BeginLine)
}

func TestParse_XMLLatin1(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<pmd><file name=\"A.java\"><violation beginline=\"1\" class=\"A\">Caf\xe9</violation></file></pmd>"

	doc, err := Parse(strings.NewReader(input), FormatXML)
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Files[0].Violations[0].Message)
}

func TestParse_EmptyReports(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"xml without files", `<pmd version="6.55.0"></pmd>`, FormatXML},
		{"self closing xml", `<pmd/>`, FormatXML},
		{"json empty element", `{"pmd": ""}`, FormatJSON},
		{"json blank element", `{"pmd": " \n "}`, FormatJSON},
		{"json without file key", `{"pmd": {"$": {"version": "6.55.0"}}}`, FormatJSON},
		{"json empty file list", `{"pmd": {"file": []}}`, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.NotNil(t, doc.Files)
			assert.Empty(t, doc.Files)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"wrong xml root", `<checkstyle><file name="A.java"/></checkstyle>`, FormatXML},
		{"xml file without name", `<pmd><file><violation beginline="1" class="A">m</violation></file></pmd>`, FormatXML},
		{"xml missing beginline", `<pmd><file name="A.java"><violation class="A">m</violation></file></pmd>`, FormatXML},
		{"xml non numeric beginline", `<pmd><file name="A.java"><violation beginline="ten" class="A">m</violation></file></pmd>`, FormatXML},
		{"xml zero beginline", `<pmd><file name="A.java"><violation beginline="0" class="A">m</violation></file></pmd>`, FormatXML},
		{"json missing pmd", `{"report": {}}`, FormatJSON},
		{"json text pmd", `{"pmd": "oops"}`, FormatJSON},
		{"json file without name", `{"pmd": {"file": [{"$": {}}]}}`, FormatJSON},
		{"json file not array", `{"pmd": {"file": {"$": {"name": "A.java"}}}}`, FormatJSON},
		{"json violation without attributes", `{"pmd": {"file": [{"$": {"name": "A.java"}, "violation": [{"_": "m"}]}]}}`, FormatJSON},
		{"json bad beginline", `{"pmd": {"file": [{"$": {"name": "A.java"}, "violation": [{"$": {"beginline": "x"}}]}]}}`, FormatJSON},
		{"empty input", "   ", FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.input), tt.format)
			assert.Nil(t, doc)
			assert.True(t, domain.IsMalformedReport(err), "expected MalformedReportError, got %v", err)
		})
	}
}

func TestParse_Undecodable(t *testing.T) {
	_, err := Parse(strings.NewReader(`<pmd><file name="A.java">`), FormatXML)
	require.Error(t, err)
	assert.False(t, domain.IsMalformedReport(err))

	_, err = Parse(strings.NewReader(`{"pmd": `), FormatJSON)
	require.Error(t, err)

	_, err = Parse(strings.NewReader(`plain text`), FormatAuto)
	require.Error(t, err)
}

func TestParse_JSONNumericBeginLine(t *testing.T) {
	input := `{"pmd": {"file": [{"$": {"name": "A.java"}, "violation": [{"$": {"beginline": 7, "class": "A"}, "_": "m"}]}]}}`
	doc, err := Parse(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 7, doc.Files[0].Violations[0].BeginLine)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatXML, FormatFromPath("pmd.XML"))
	assert.Equal(t, FormatJSON, FormatFromPath("out/pmd.json"))
	assert.Equal(t, FormatAuto, FormatFromPath("report.txt"))
}

func TestParseBytes_UnsupportedFormat(t *testing.T) {
	_, err := ParseBytes([]byte(testutil.SampleXML), Format("csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: csv")
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteReport(t, dir, "pmd.xml", testutil.SampleXML)
	loader := NewLoader()

	doc, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assertSampleDocument(t, doc)

	// extension-less files are detected from content
	noExt := testutil.WriteReport(t, dir, "report", testutil.SampleJSON)
	doc, err = loader.Load(context.Background(), noExt)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.CountViolations())
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	_, err := loader.Load(context.Background(), filepath.Join(dir, "missing.xml"))
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeFileNotFound, domainErr.Code)

	_, err = loader.Load(context.Background(), dir)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalidInput, domainErr.Code)

	broken := testutil.WriteReport(t, dir, "broken.xml", "<pmd><file")
	_, err = loader.Load(context.Background(), broken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeParseError, domainErr.Code)

	malformed := testutil.WriteReport(t, dir, "malformed.xml", "<report/>")
	_, err = loader.Load(context.Background(), malformed)
	assert.True(t, domain.IsMalformedReport(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.Load(ctx, malformed)
	assert.ErrorIs(t, err, context.Canceled)
}
