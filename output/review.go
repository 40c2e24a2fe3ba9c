package output

import (
	"sort"

	"docfill/extract"
)

const (
	KindEmpty         = "empty"
	KindDodgy         = "dodgy"
	KindMissingHeader = "missing-header"
)

var reviewHeaders = []string{"Kind", "Year", "Entity", "Header"}

// ReviewRow is one item needing manual review: a blank source cell, a cell
// that could not be formatted, or a template header with no source column.
type ReviewRow struct {
	Kind   string
	Year   string
	Entity string
	Header string
}

func (r ReviewRow) values() []string {
	return []string{r.Kind, r.Year, r.Entity, r.Header}
}

// BuildReview lists empty and dodgy cells per year (entities sorted, headers
// in sheet order), followed by the template headers missing from the book.
func BuildReview(book *extract.Book, templateHeaders []string) []ReviewRow {
	rows := make([]ReviewRow, 0)
	empty := book.EmptyCells()
	dodgy := book.DodgyCells()

	for _, year := range book.Years() {
		rows = appendCells(rows, KindEmpty, year, empty[year])
		rows = appendCells(rows, KindDodgy, year, dodgy[year])
	}

	for _, header := range book.MissingHeaders(templateHeaders) {
		rows = append(rows, ReviewRow{Kind: KindMissingHeader, Header: header})
	}

	return rows
}

func appendCells(rows []ReviewRow, kind, year string, cells map[string][]string) []ReviewRow {
	entities := make([]string, 0, len(cells))
	for entity := range cells {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		for _, header := range cells[entity] {
			rows = append(rows, ReviewRow{Kind: kind, Year: year, Entity: entity, Header: header})
		}
	}
	return rows
}
