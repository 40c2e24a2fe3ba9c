package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads one sheet per CSV file. The path is either a single file or
// a directory; each file's stem becomes its sheet name (e.g. 2012.csv).
// Files may be UTF-8 or BOM-marked UTF-16.
//
// CSV has no number formats, so numeric text carries its own: "12.5" reads as
// 12.5 with format "0.0", "£1,234" as 1234 with "£0", "25.6%" as 0.256 with
// "0.0%".
type CSVReader struct{}

func (r *CSVReader) Read(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat csv source %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = csvFilesIn(path)
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", ErrNoSheets, path)
	}

	book := &Workbook{Name: filepath.Base(path), Sheets: make([]*Sheet, 0, len(files))}
	for _, file := range files {
		sheet, err := readCSVSheet(file)
		if err != nil {
			return nil, err
		}
		book.Sheets = append(book.Sheets, sheet)
	}
	return book, nil
}

func csvFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read csv directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readCSVSheet(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]Cell, 0, 64)
	rowNumber := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d of %s: %w", rowNumber+1, path, err)
		}
		rowNumber++

		cells := make([]Cell, len(record))
		for i, text := range record {
			cells[i] = parseCSVCell(text)
		}
		rows = append(rows, cells)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewSheet(name, rows), nil
}

func parseCSVCell(text string) Cell {
	if text == "" {
		return Cell{}
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "£"):
		digits := strings.TrimPrefix(trimmed, "£")
		if value, ok := parseCSVNumber(digits); ok {
			return Cell{Value: value, NumFmt: "£" + decimalSpec(digits)}
		}
	case strings.HasSuffix(trimmed, "%"):
		digits := strings.TrimSuffix(trimmed, "%")
		if value, ok := parseCSVNumber(digits); ok {
			return Cell{Value: value / 100, NumFmt: decimalSpec(digits) + "%"}
		}
	default:
		if value, ok := parseCSVNumber(trimmed); ok {
			return Cell{Value: value, NumFmt: decimalSpec(trimmed)}
		}
	}

	return Cell{Value: text, NumFmt: builtinNumFmt[49]}
}

func parseCSVNumber(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func decimalSpec(text string) string {
	dot := strings.LastIndex(text, ".")
	if dot < 0 {
		return "0"
	}
	switch decimals := len(strings.TrimSpace(text[dot+1:])); {
	case decimals == 0:
		return "0"
	case decimals == 1:
		return "0.0"
	default:
		return "0.00"
	}
}
