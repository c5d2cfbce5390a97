package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pmdview/domain"
	"golang.org/x/text/encoding/ianaindex"
)

// RootElement is the name of the root element of a PMD XML report
const RootElement = "pmd"

type xmlReport struct {
	XMLName   xml.Name
	Version   string    `xml:"version,attr"`
	Timestamp string    `xml:"timestamp,attr"`
	Files     []xmlFile `xml:"file"`
}

type xmlFile struct {
	Name       string         `xml:"name,attr"`
	Violations []xmlViolation `xml:"violation"`
}

type xmlViolation struct {
	BeginLine string `xml:"beginline,attr"`
	Class     string `xml:"class,attr"`
	Message   string `xml:",chardata"`
}

func parseXML(data []byte) (*domain.ReportDocument, error) {
	var raw xmlReport
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	if raw.XMLName.Local != RootElement {
		return nil, domain.NewMalformedReportError(
			fmt.Sprintf("expected <%s> root element, found <%s>", RootElement, raw.XMLName.Local), nil)
	}

	doc := &domain.ReportDocument{
		Version:   raw.Version,
		Timestamp: raw.Timestamp,
		Files:     make([]domain.FileEntry, 0, len(raw.Files)),
	}
	var problems []string
	for i, f := range raw.Files {
		entry := domain.FileEntry{
			Name:       f.Name,
			Violations: make([]domain.ViolationEntry, 0, len(f.Violations)),
		}
		for j, v := range f.Violations {
			line, err := parseBeginLine(v.BeginLine)
			if err != nil {
				problems = append(problems, fmt.Sprintf("file[%d].violation[%d]: %v", i, j, err))
				continue
			}
			entry.Violations = append(entry.Violations, domain.ViolationEntry{
				Class:     v.Class,
				BeginLine: line,
				Message:   v.Message,
			})
		}
		doc.Files = append(doc.Files, entry)
	}

	if len(problems) > 0 {
		return nil, &domain.MalformedReportError{Message: "report is malformed", Problems: problems}
	}
	return doc, nil
}

func parseBeginLine(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("beginline is missing")
	}
	line, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("beginline %q is not a number", s)
	}
	return line, nil
}

// charsetReader decodes reports declared in a non UTF-8 encoding such as ISO-8859-1
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
