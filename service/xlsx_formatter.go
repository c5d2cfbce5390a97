package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// XLSXTableSheet holds the violations table
	XLSXTableSheet = "Violations"

	// XLSXInfoSheet holds report metadata
	XLSXInfoSheet = "Report"
)

// WriteXLSX writes the table as a workbook with a styled, frozen header row
func (f *OutputFormatterImpl) WriteXLSX(table domain.Table, meta domain.TableMeta, writer io.Writer) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), XLSXTableSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeXLSXTable(book, table); err != nil {
		return err
	}
	if err := writeXLSXInfo(book, table, meta); err != nil {
		return err
	}

	if err := book.SetDocProps(&excelize.DocProperties{
		Title:   table.Title,
		Creator: "pmdview " + meta.Version,
		Created: meta.GeneratedAt,
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	return book.Write(writer)
}

func writeXLSXTable(book *excelize.File, table domain.Table) error {
	header := []interface{}{"File"}
	for _, h := range table.Columns {
		header = append(header, h.Label)
	}
	if err := book.SetSheetRow(XLSXTableSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		values := []interface{}{row.FileName}
		for _, h := range table.Columns {
			text := row.Cell(h.ID)
			if h.ID == domain.ColumnLineNumber {
				if n, err := strconv.Atoi(text); err == nil {
					values = append(values, n)
					continue
				}
			}
			values = append(values, text)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(XLSXTableSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"3F51B5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := book.SetCellStyle(XLSXTableSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	widths := map[string]float64{"A": 40, "B": 30, "C": 12, "D": 80}
	for col, width := range widths {
		if err := book.SetColWidth(XLSXTableSheet, col, col, width); err != nil {
			return err
		}
	}

	if err := book.SetPanes(XLSXTableSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastRow := len(table.Rows) + 1
	return book.AutoFilter(XLSXTableSheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil)
}

func writeXLSXInfo(book *excelize.File, table domain.Table, meta domain.TableMeta) error {
	if _, err := book.NewSheet(XLSXInfoSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	sorted := "report order"
	if meta.LastSort != nil {
		sorted = fmt.Sprintf("%s (%s)", meta.LastSort.Column.Label(), meta.LastSort.Direction)
	}

	rows := [][]interface{}{
		{"Report", meta.Source},
		{"Session", meta.SessionID},
		{"Files", meta.TotalFiles},
		{"Violations", len(table.Rows)},
		{"Sorted by", sorted},
		{"Generated", meta.GeneratedAt},
		{"Version", meta.Version},
	}
	for i, values := range rows {
		if err := book.SetSheetRow(XLSXInfoSheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return err
		}
	}
	return book.SetColWidth(XLSXInfoSheet, "A", "A", 14)
}
