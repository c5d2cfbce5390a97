package viewer

import (
	"strconv"

	"github.com/ludo-technologies/pmdview/domain"
)

// TableTitle is the caption shown above every violations table
const TableTitle = "Violations"

// BuildTable formats records as a table, one row per record in input order.
// It keeps no state and never sorts.
func BuildTable(records []domain.Violation) domain.Table {
	return buildTable(records, nil)
}

// buildTable is BuildTable with each row's position in the flattened
// report taken from order. A nil order means records are unsorted.
func buildTable(records []domain.Violation, order []int) domain.Table {
	columns := domain.Columns()
	headers := make([]domain.ColumnHeader, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, domain.ColumnHeader{ID: col, Label: col.Label()})
	}

	rows := make([]domain.Row, 0, len(records))
	for i, v := range records {
		index := i
		if order != nil {
			index = order[i]
		}
		rows = append(rows, domain.Row{
			Index:    index,
			FileName: v.FileName,
			Cells: []domain.Cell{
				{Column: domain.ColumnClassName, Text: v.ClassName},
				{Column: domain.ColumnLineNumber, Text: strconv.Itoa(v.BeginningLine)},
				{Column: domain.ColumnDescription, Text: v.Description},
			},
		})
	}

	return domain.Table{
		Title:   TableTitle,
		Columns: headers,
		Rows:    rows,
	}
}
