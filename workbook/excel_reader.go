package workbook

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads every sheet of an .xlsx/.xlsm file with cached formula
// results, keeping numbers typed and recording each cell's number format.
type ExcelReader struct{}

func (r *ExcelReader) Read(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheets, path)
	}

	formats := newFormatCache(file)
	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	book := &Workbook{Name: filepath.Base(path), Sheets: make([]*Sheet, 0, len(names))}
	for _, name := range names {
		sheet, err := readExcelSheet(file, name, formats, date1904)
		if err != nil {
			return nil, err
		}
		book.Sheets = append(book.Sheets, sheet)
	}

	return book, nil
}

func readExcelSheet(file *excelize.File, name string, formats *formatCache, date1904 bool) (*Sheet, error) {
	rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", name, err)
	}

	cells := make([][]Cell, len(rows))
	for rowIdx, row := range rows {
		cells[rowIdx] = make([]Cell, len(row))
		for colIdx, raw := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("resolve cell name in sheet %s: %w", name, err)
			}

			cellType, err := file.GetCellType(name, cellName)
			if err != nil {
				return nil, fmt.Errorf("read cell type %s!%s: %w", name, cellName, err)
			}
			styleID, err := file.GetCellStyle(name, cellName)
			if err != nil {
				return nil, fmt.Errorf("read cell style %s!%s: %w", name, cellName, err)
			}

			numFmt := formats.lookup(styleID)
			cells[rowIdx][colIdx] = Cell{
				Value:  excelValue(raw, cellType, numFmt, date1904),
				NumFmt: numFmt,
			}
		}
	}

	return NewSheet(name, cells), nil
}

// excelValue types a raw cell value. Numbers shown with a date or time format
// are returned as time.Time, like Excel displays them.
func excelValue(raw string, cellType excelize.CellType, numFmt string, date1904 bool) any {
	if raw == "" {
		return nil
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			return excelTime(value, date1904)
		}
		if value, err := time.Parse(time.RFC3339, raw); err == nil {
			return value
		}
		return raw
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		if IsDateFormat(numFmt) {
			return excelTime(value, date1904)
		}
		return value
	default:
		return raw
	}
}

// formatCache resolves style ids to number format codes once per workbook.
type formatCache struct {
	file  *excelize.File
	codes map[int]string
}

func newFormatCache(file *excelize.File) *formatCache {
	return &formatCache{file: file, codes: make(map[int]string)}
}

func (c *formatCache) lookup(styleID int) string {
	if code, ok := c.codes[styleID]; ok {
		return code
	}

	code := builtinNumFmt[0]
	if style, err := c.file.GetStyle(styleID); err == nil && style != nil {
		code = numFmtCode(style.NumFmt, style.CustomNumFmt)
	}
	c.codes[styleID] = code
	return code
}

func numFmtCode(id int, custom *string) string {
	if custom != nil && *custom != "" {
		return *custom
	}
	if code, ok := builtinNumFmt[id]; ok {
		return code
	}
	return builtinNumFmt[0]
}

func excelTime(serial float64, date1904 bool) time.Time {
	value, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}
	}
	return value
}
