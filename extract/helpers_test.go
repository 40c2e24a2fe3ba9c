package extract

import (
	"docfill/workbook"
)

// sheetOf builds a sheet from plain values; every cell gets the same format.
func sheetOf(name, numFmt string, rows [][]any) *workbook.Sheet {
	cells := make([][]workbook.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]workbook.Cell, len(row))
		for j, value := range row {
			cells[i][j] = workbook.Cell{Value: value, NumFmt: numFmt}
		}
	}
	return workbook.NewSheet(name, cells)
}

// reportSheet is a typical year sheet: a title block, the table anchored at
// B3 and a totals row, which is part of the region.
func reportSheet(name string) *workbook.Sheet {
	return sheetOf(name, "0", [][]any{
		{"Yearly report"},
		{nil},
		{nil, "Constituency", "No. Of Clients", "Number Of X"},
		{nil, "Angus", 12.0, 3.0},
		{nil, "Moray", 7.0, nil},
		{nil, "Total Clients", 19.0, 3.0},
	})
}
