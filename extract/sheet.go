package extract

import (
	"docfill/normalize"
	"docfill/workbook"
)

type HeaderValue struct {
	Header string
	Value  string
}

type EntityValue struct {
	Entity string
	Value  string
}

// YearSheet is the extracted content of one year's sheet: the index, a dense
// grid of display strings and the cells that need manual review. A cell is
// either formatted, empty or dodgy; empty and dodgy cells hold "" in the grid.
type YearSheet struct {
	Year string

	region  Region
	located bool
	index   *Index
	norm    *normalize.Normalizer
	values  [][]string
	empty   map[string][]string
	dodgy   map[string][]string
}

// ExtractSheet locates, indexes and formats one sheet. A sheet without an
// anchor yields a YearSheet with no entities and no headers.
func ExtractSheet(year string, sheet *workbook.Sheet, locator Locator, norm *normalize.Normalizer) *YearSheet {
	ys := &YearSheet{
		Year:  year,
		norm:  norm,
		index: &Index{entityMap: map[string]entityRef{}, headerMap: map[string]HeaderRef{}},
		empty: make(map[string][]string),
		dodgy: make(map[string][]string),
	}

	region, ok := locator.Locate(sheet)
	if !ok {
		return ys
	}
	ys.region, ys.located = region, true
	ys.index = BuildIndex(sheet, region, norm)

	entities, headers := ys.index.entities, ys.index.headers
	ys.values = make([][]string, len(entities))
	for i := range ys.values {
		ys.values[i] = make([]string, len(headers))
	}

	for i, entity := range entities {
		row, _ := ys.index.EntityRow(entity)
		for _, raw := range headers {
			ref, _ := ys.index.Header(norm.Normalize(raw))
			cell := sheet.Cell(row, ref.Column)

			if cell.Blank() {
				ys.values[i][ref.Slot] = ""
				ys.empty[entity] = append(ys.empty[entity], raw)
				continue
			}

			formatted, err := FormatValue(cell.Value, ref.NumFmt)
			if err != nil {
				ys.values[i][ref.Slot] = ""
				ys.dodgy[entity] = append(ys.dodgy[entity], raw)
				continue
			}
			ys.values[i][ref.Slot] = formatted
		}
	}

	return ys
}

// Located reports whether an anchor cell was found.
func (s *YearSheet) Located() bool {
	return s.located
}

func (s *YearSheet) Region() Region {
	return s.region
}

func (s *YearSheet) Entities() []string {
	return s.index.Entities()
}

func (s *YearSheet) Headers() []string {
	return s.index.Headers()
}

// HasHeader reports whether raw normalizes to a header of this sheet.
func (s *YearSheet) HasHeader(raw string) bool {
	_, ok := s.index.Header(s.norm.Normalize(raw))
	return ok
}

// EmptyCells maps entities to the raw headers of their blank cells.
func (s *YearSheet) EmptyCells() map[string][]string {
	return copyCells(s.empty)
}

// DodgyCells maps entities to the raw headers of cells that held a value
// which could not be formatted as a number.
func (s *YearSheet) DodgyCells() map[string][]string {
	return copyCells(s.dodgy)
}

// Value returns the display string for an entity and a raw header.
func (s *YearSheet) Value(entity, header string) (string, error) {
	row, ok := s.index.entitySlot(entity)
	if !ok {
		return "", &LookupError{Year: s.Year, Entity: entity, Header: header, Err: ErrEntityNotFound}
	}
	ref, ok := s.index.Header(s.norm.Normalize(header))
	if !ok {
		return "", &LookupError{Year: s.Year, Entity: entity, Header: header, Err: ErrHeaderNotFound}
	}
	return s.values[row][ref.Slot], nil
}

// EntityData returns every header's value for one entity, in header order.
func (s *YearSheet) EntityData(entity string) ([]HeaderValue, error) {
	if _, ok := s.index.entitySlot(entity); !ok {
		return nil, &LookupError{Year: s.Year, Entity: entity, Err: ErrEntityNotFound}
	}

	out := make([]HeaderValue, 0, len(s.index.headers))
	for _, header := range s.index.headers {
		value, err := s.Value(entity, header)
		if err != nil {
			return nil, err
		}
		out = append(out, HeaderValue{Header: header, Value: value})
	}
	return out, nil
}

// HeaderData returns every entity's value for one raw header, in entity order.
func (s *YearSheet) HeaderData(header string) ([]EntityValue, error) {
	if !s.HasHeader(header) {
		return nil, &LookupError{Year: s.Year, Header: header, Err: ErrHeaderNotFound}
	}

	out := make([]EntityValue, 0, len(s.index.entities))
	for _, entity := range s.index.entities {
		value, err := s.Value(entity, header)
		if err != nil {
			return nil, err
		}
		out = append(out, EntityValue{Entity: entity, Value: value})
	}
	return out, nil
}

func copyCells(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for entity, headers := range in {
		out[entity] = append([]string(nil), headers...)
	}
	return out
}
