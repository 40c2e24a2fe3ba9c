// Package doctemplate reads a DOCX report template, indexes the year-by-header
// tables it contains and renders filled-in copies of it.
//
// A destination table has headers in its first row, starting at the second
// cell, and a year label in the first cell of every other row. The parsed
// template is never modified: values are collected in a Writer and applied to
// a freshly unpacked copy of the template by Render.
package doctemplate

import (
	"fmt"
	"os"
	"path/filepath"

	"docfill/normalize"

	"github.com/beevik/etree"
)

type Options struct {
	TitleStyle Style
	CellStyle  Style

	// ApplyCellStyle sets CellStyle on every written cell paragraph.
	ApplyCellStyle bool
}

func DefaultOptions() Options {
	return Options{
		TitleStyle:     Style{Name: "Title", Font: "Arial", Size: 18, Bold: true},
		CellStyle:      Style{Name: "CellStyle", Font: "Arial", Size: 16, Bold: false},
		ApplyCellStyle: true,
	}
}

// Location addresses one cell: table, row and grid column, all 0-based.
type Location struct {
	Table int
	Row   int
	Cell  int
}

type column struct {
	table int
	cell  int
}

type table struct {
	years map[string]int

	// present marks, per row, the grid columns that hold a cell.
	present [][]bool
}

// Template is a parsed, indexed DOCX template. It is safe for concurrent use.
type Template struct {
	Name string
	Path string

	raw     []byte
	opts    Options
	norm    *normalize.Normalizer
	headers []string
	columns map[string]column
	tables  []table
}

// Load reads and indexes the template at path.
func Load(path string, norm *normalize.Normalizer, opts Options) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	tmpl, err := Parse(data, norm, opts)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", path, err)
	}
	tmpl.Name = filepath.Base(path)
	tmpl.Path = path
	return tmpl, nil
}

// Parse indexes a template held in memory.
func Parse(data []byte, norm *normalize.Normalizer, opts Options) (*Template, error) {
	if norm == nil {
		norm = normalize.New()
	}
	pkg, err := ReadPackage(data)
	if err != nil {
		return nil, err
	}
	content, ok := pkg.Part(documentPart)
	if !ok {
		return nil, ErrNoDocument
	}
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	tmpl := &Template{
		raw:     data,
		opts:    opts,
		norm:    norm,
		columns: make(map[string]column),
	}
	for ti, tbl := range doc.tables() {
		grid := tableGrid(tbl)
		t := table{years: make(map[string]int), present: make([][]bool, len(grid))}
		for ri, cells := range grid {
			t.present[ri] = make([]bool, len(cells))
			for ci, tc := range cells {
				t.present[ri][ci] = tc != nil
			}
			if ri == 0 {
				for ci := 1; ci < len(cells); ci++ {
					if cells[ci] != nil {
						tmpl.addHeader(cellText(cells[ci]), ti, ci)
					}
				}
				continue
			}
			if len(cells) > 0 && cells[0] != nil {
				t.years[cellText(cells[0])] = ri
			}
		}
		tmpl.tables = append(tmpl.tables, t)
	}
	return tmpl, nil
}

// addHeader indexes one header cell. A later header with the same normalized
// form, in the same or a later table, takes over the mapping.
func (t *Template) addHeader(raw string, tableIdx, cellIdx int) {
	key := t.norm.Normalize(raw)
	if key == "" {
		return
	}
	t.columns[key] = column{table: tableIdx, cell: cellIdx}
	t.headers = append(t.headers, raw)
}

// Headers lists the raw header texts of all tables in document order.
func (t *Template) Headers() []string {
	return append([]string(nil), t.headers...)
}

// HasColumn reports whether a raw header matches a template column after
// normalization.
func (t *Template) HasColumn(raw string) bool {
	_, ok := t.columns[t.norm.Normalize(raw)]
	return ok
}

// TableCount reports how many top-level tables were indexed.
func (t *Template) TableCount() int {
	return len(t.tables)
}

// Locate resolves a year label and raw header to a cell.
func (t *Template) Locate(year, rawHeader string) (Location, error) {
	col, ok := t.columns[t.norm.Normalize(rawHeader)]
	if !ok {
		return Location{}, &MatchError{Year: year, Header: rawHeader, Err: ErrUnknownHeader}
	}
	tbl := t.tables[col.table]
	row, ok := tbl.years[year]
	if !ok {
		return Location{}, &MatchError{Year: year, Header: rawHeader, Err: ErrUnknownYear}
	}
	if cells := tbl.present[row]; col.cell >= len(cells) || !cells[col.cell] {
		return Location{}, &MatchError{Year: year, Header: rawHeader, Err: ErrCellOutOfRange}
	}
	return Location{Table: col.table, Row: row, Cell: col.cell}, nil
}

// NewWriter starts an empty write plan against the template.
func (t *Template) NewWriter() *Writer {
	return &Writer{tmpl: t}
}

type instruction struct {
	loc   Location
	value string
}

// Writer collects cell values for one rendered copy of a template.
type Writer struct {
	tmpl *Template
	plan []instruction
}

// Write records value for the cell at (year, header). A write that matches no
// cell returns a *MatchError and records nothing. Writing a cell twice keeps
// the later value.
func (w *Writer) Write(year, rawHeader, value string) error {
	loc, err := w.tmpl.Locate(year, rawHeader)
	if err != nil {
		return err
	}
	w.plan = append(w.plan, instruction{loc: loc, value: value})
	return nil
}

// Written reports how many writes matched a cell.
func (w *Writer) Written() int {
	return len(w.plan)
}

// Render applies the writer's plan to a fresh copy of the template and returns
// the resulting DOCX. A non-empty title is inserted as the first paragraph and
// stored as the document title property.
func (t *Template) Render(w *Writer, title string) ([]byte, error) {
	pkg, err := ReadPackage(t.raw)
	if err != nil {
		return nil, err
	}
	content, ok := pkg.Part(documentPart)
	if !ok {
		return nil, ErrNoDocument
	}
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	titleID, cellID, err := t.prepareStyles(pkg)
	if err != nil {
		return nil, err
	}

	tables := doc.tables()
	grids := make(map[int][][]*etree.Element)
	for _, ins := range w.plan {
		grid, ok := grids[ins.loc.Table]
		if !ok {
			grid = tableGrid(tables[ins.loc.Table])
			grids[ins.loc.Table] = grid
		}
		setCellText(grid[ins.loc.Row][ins.loc.Cell], ins.value, cellID)
	}

	if title != "" {
		doc.insertTitle(title, titleID)
		if core, ok := pkg.Part(corePart); ok {
			updated, err := setCoreTitle(core, title)
			if err != nil {
				return nil, err
			}
			pkg.SetPart(corePart, updated)
		}
	}

	out, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	pkg.SetPart(documentPart, out)
	return pkg.Bytes()
}

// prepareStyles makes sure the title and cell styles exist in the copy and
// returns their ids. Without a styles part, paragraphs are left unstyled.
func (t *Template) prepareStyles(pkg *Package) (titleID, cellID string, err error) {
	data, ok := pkg.Part(stylesPart)
	if !ok {
		return "", "", nil
	}
	sheet, err := parseStyles(data)
	if err != nil {
		return "", "", err
	}

	titleID = sheet.ensure(t.opts.TitleStyle)
	if t.opts.ApplyCellStyle {
		cellID = sheet.ensure(t.opts.CellStyle)
	}

	out, err := sheet.bytes()
	if err != nil {
		return "", "", err
	}
	pkg.SetPart(stylesPart, out)
	return titleID, cellID, nil
}
