// Package workbook holds an in-memory copy of a source spreadsheet: the sheets,
// their typed cell values and the number format of each cell.
package workbook

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNoSheets is returned when a source contains no readable sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// Cell is one spreadsheet cell. Value is nil, float64, string, bool or
// time.Time (numbers shown with a date format).
// NumFmt is the Excel number format code applied to the cell, if known.
type Cell struct {
	Value  any
	NumFmt string
}

// Blank reports whether the cell is empty or holds a falsy value
// (empty text, numeric zero, false).
func (c Cell) Blank() bool {
	switch v := c.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}

// Text renders the cell as a label.
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case time.Time:
		return v.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}

// Sheet is a rectangular-ish grid of cells. Rows may have different lengths;
// missing cells read as empty.
type Sheet struct {
	Name string

	rows   [][]Cell
	maxCol int
}

func NewSheet(name string, rows [][]Cell) *Sheet {
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return &Sheet{Name: name, rows: rows, maxCol: maxCol}
}

// Cell returns the cell at a 1-based row and column.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 1 || row > len(s.rows) {
		return Cell{}
	}
	cells := s.rows[row-1]
	if col < 1 || col > len(cells) {
		return Cell{}
	}
	return cells[col-1]
}

// MaxRow is the last populated row (1-based).
func (s *Sheet) MaxRow() int {
	return len(s.rows)
}

// MaxColumn is the last populated column across all rows (1-based).
func (s *Sheet) MaxColumn() int {
	return s.maxCol
}

type Workbook struct {
	Name   string
	Sheets []*Sheet
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, sheet := range w.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return nil, false
}

// SheetNames lists sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, sheet := range w.Sheets {
		names = append(names, sheet.Name)
	}
	return names
}

// LoadError reports a source that could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load workbook %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
