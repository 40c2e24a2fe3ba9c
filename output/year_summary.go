package output

import (
	"fmt"
	"strconv"

	"docfill/extract"
)

// YearSummary condenses one year sheet for the inspect command.
type YearSummary struct {
	Year       string
	Located    bool
	Entities   int
	Headers    int
	EmptyCells int
	DodgyCells int
}

var yearSummaryHeaders = []string{"Year", "Located", "Entities", "Headers", "EmptyCells", "DodgyCells"}

func BuildYearSummaries(book *extract.Book) []YearSummary {
	summaries := make([]YearSummary, 0, len(book.Years()))
	for _, year := range book.Years() {
		sheet, ok := book.Sheet(year)
		if !ok {
			continue
		}
		summaries = append(summaries, YearSummary{
			Year:       year,
			Located:    sheet.Located(),
			Entities:   len(sheet.Entities()),
			Headers:    len(sheet.Headers()),
			EmptyCells: countCells(sheet.EmptyCells()),
			DodgyCells: countCells(sheet.DodgyCells()),
		})
	}
	return summaries
}

func countCells(cells map[string][]string) int {
	total := 0
	for _, headers := range cells {
		total += len(headers)
	}
	return total
}

func (s YearSummary) values() []string {
	return []string{
		s.Year,
		strconv.FormatBool(s.Located),
		strconv.Itoa(s.Entities),
		strconv.Itoa(s.Headers),
		strconv.Itoa(s.EmptyCells),
		strconv.Itoa(s.DodgyCells),
	}
}

func WriteYearSummaries(path, format string, summaries []YearSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		records = append(records, summary.values())
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, yearSummaryHeaders, records)
	case "excel", "xlsx":
		return writeExcel(path, "Years", yearSummaryHeaders, records)
	default:
		return fmt.Errorf("unsupported output format for year summaries: %s", format)
	}
}
