package output

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []ReviewRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.values())
	}
	return writeExcel(path, "Review", reviewHeaders, records)
}

// writeExcel writes one sheet with a bold, frozen and filterable header row.
func writeExcel(path, sheetName string, headers []string, records [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	widths := make([]int, len(headers))
	if err := setRow(file, sheetName, 1, headers, widths); err != nil {
		return err
	}
	for i, values := range records {
		if err := setRow(file, sheetName, i+2, values, widths); err != nil {
			return err
		}
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := file.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style excel header: %w", err)
	}
	if err := file.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze excel header: %w", err)
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(headers), len(records)+1)
	if err := file.AutoFilter(sheetName, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("add excel filter: %w", err)
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := file.SetColWidth(sheetName, name, name, float64(min(width+2, 60))); err != nil {
			return fmt.Errorf("set excel column width %s: %w", name, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}

// setRow writes values starting at column A of row and widens widths to fit.
func setRow(file *excelize.File, sheet string, row int, values []string, widths []int) error {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
		if i < len(widths) {
			widths[i] = max(widths[i], utf8.RuneCountInString(value))
		}
	}

	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("set excel row %d: %w", row, err)
	}
	return nil
}
