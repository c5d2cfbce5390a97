// Package viewer turns a parsed report into a sortable violations table.
//
// The flow is Flatten -> BuildTable for the initial display and, for each
// column sort request, SortState -> Sorter -> BuildTable. A Session ties
// the pieces together for one opened report.
package viewer

import (
	"github.com/ludo-technologies/pmdview/domain"
)

// Flatten converts a report document into violation records.
// Files are visited in document order and, within each file, violations
// in document order. The whole call fails if the document is malformed;
// no partial list is ever returned.
func Flatten(doc *domain.ReportDocument) ([]domain.Violation, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	records := make([]domain.Violation, 0, doc.CountViolations())
	for _, file := range doc.Files {
		for _, v := range file.Violations {
			records = append(records, domain.NewViolation(file.Name, v.Class, v.BeginLine, v.Message))
		}
	}
	return records, nil
}
