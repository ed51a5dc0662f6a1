package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// SheetName is the worksheet written by WriteXLSX
const SheetName = "Rows"

// WriteXLSX writes a workbook with a bold header row and one row per grid
// row. Numbers and booleans keep their cell type; everything else is text.
func WriteXLSX(w io.Writer, rows []models.Row, cols []models.ColumnDef) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	cols = Columns(cols)
	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, c.Title()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range rows {
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(SheetName, cell, xlsxValue(values.Cell(row, c))); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 15.0
		if c.Width > 0 {
			width = float64(c.Width) / 7
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to size column: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxValue(v any) any {
	if b, ok := v.(bool); ok {
		return b
	}
	if n, ok := values.Number(v); ok {
		return n
	}
	return CellText(v)
}
