package extract

import (
	"slices"
	"strings"

	"docfill/workbook"
)

// Region is the 1-based inclusive bounds of a table inside a sheet. The start
// cell is the anchor: entities run down from it, headers run right of it.
type Region struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Locator finds the data region of a sheet by looking for an anchor label
// near the top-left corner and an end-marker row below it.
type Locator struct {
	AnchorLabels   []string
	EndMarkers     []string
	MaxStartColumn int
	MaxStartRow    int
}

func DefaultLocator() Locator {
	return Locator{
		AnchorLabels:   []string{"Constituency", "Local Authority"},
		EndMarkers:     []string{"Total Clients", "All Constituents"},
		MaxStartColumn: 8,
		MaxStartRow:    16,
	}
}

// Locate scans the first MaxStartColumn columns and MaxStartRow rows column
// by column; the first anchor label found wins, so a match in a lower column
// beats one in a lower row.
//
// The end row is the topmost end-marker row below the anchor in the anchor
// column: rows are scanned bottom-up and every match overwrites the previous
// one. Without a marker the region runs to the last row of the sheet.
func (l Locator) Locate(sheet *workbook.Sheet) (Region, bool) {
	maxCol := min(l.MaxStartColumn, sheet.MaxColumn())
	maxRow := min(l.MaxStartRow, sheet.MaxRow())

	region, found := Region{}, false
scan:
	for col := 1; col <= maxCol; col++ {
		for row := 1; row <= maxRow; row++ {
			cell := sheet.Cell(row, col)
			if !cell.Blank() && slices.Contains(l.AnchorLabels, strings.TrimSpace(cell.Text())) {
				region.StartRow, region.StartCol = row, col
				found = true
				break scan
			}
		}
	}
	if !found {
		return Region{}, false
	}

	region.EndCol = sheet.MaxColumn()
	region.EndRow = sheet.MaxRow()
	for row := sheet.MaxRow(); row > region.StartRow; row-- {
		cell := sheet.Cell(row, region.StartCol)
		if !cell.Blank() && slices.Contains(l.EndMarkers, strings.TrimSpace(cell.Text())) {
			region.EndRow = row
		}
	}

	return region, true
}

