package extract

import (
	"docfill/normalize"
	"docfill/workbook"
)

// HeaderRef locates one header column. Slot is the header's position in the
// value grid; Column is its 1-based sheet column.
type HeaderRef struct {
	Slot   int
	Column int
	Raw    string
	NumFmt string
}

type entityRef struct {
	slot int
	row  int
}

// Index maps entities to rows and normalized headers to columns for one
// located region. It is immutable once built.
type Index struct {
	entities []string
	headers  []string

	entityMap map[string]entityRef
	headerMap map[string]HeaderRef
}

// BuildIndex reads entity labels down the anchor column and header labels
// along the anchor row, in sheet order. Blank labels are skipped.
//
// Each header's number format comes from the first data row of its column.
// A header whose normalized form was already seen replaces the earlier
// mapping; the earlier raw header stays in Headers but resolves to the later
// column. A repeated entity keeps its first position and maps to its last row.
func BuildIndex(sheet *workbook.Sheet, region Region, norm *normalize.Normalizer) *Index {
	idx := &Index{
		entityMap: make(map[string]entityRef),
		headerMap: make(map[string]HeaderRef),
	}

	for row := region.StartRow + 1; row <= region.EndRow; row++ {
		cell := sheet.Cell(row, region.StartCol)
		if cell.Blank() {
			continue
		}
		entity := cell.Text()
		if ref, ok := idx.entityMap[entity]; ok {
			ref.row = row
			idx.entityMap[entity] = ref
			continue
		}
		idx.entityMap[entity] = entityRef{slot: len(idx.entities), row: row}
		idx.entities = append(idx.entities, entity)
	}

	for col := region.StartCol + 1; col <= region.EndCol; col++ {
		cell := sheet.Cell(region.StartRow, col)
		if cell.Blank() {
			continue
		}
		raw := cell.Text()
		idx.headerMap[norm.Normalize(raw)] = HeaderRef{
			Slot:   len(idx.headers),
			Column: col,
			Raw:    raw,
			NumFmt: sheet.Cell(region.StartRow+1, col).NumFmt,
		}
		idx.headers = append(idx.headers, raw)
	}

	return idx
}

// Entities lists entity labels in first-seen order.
func (i *Index) Entities() []string {
	return append([]string(nil), i.entities...)
}

// Headers lists raw header labels in sheet order, including headers shadowed
// by a later header with the same normalized form.
func (i *Index) Headers() []string {
	return append([]string(nil), i.headers...)
}

// Header returns the column for a normalized header.
func (i *Index) Header(normalized string) (HeaderRef, bool) {
	ref, ok := i.headerMap[normalized]
	return ref, ok
}

// EntityRow returns the 1-based sheet row of an entity.
func (i *Index) EntityRow(entity string) (int, bool) {
	ref, ok := i.entityMap[entity]
	return ref.row, ok
}

func (i *Index) entitySlot(entity string) (int, bool) {
	ref, ok := i.entityMap[entity]
	return ref.slot, ok
}
