package doctemplate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docfill/internal/testdocx"
	"docfill/normalize"

	"github.com/google/go-cmp/cmp"
)

func fixture() testdocx.Document {
	return testdocx.Document{
		Paragraphs: []string{"Annual summary"},
		Tables: [][][]string{
			{
				{"Year", "No. of Clients", "Percentage Under 25"},
				{"2012", "", ""},
				{"2013", "", ""},
			},
			{
				{"", "Spend", ""},
				{"2012", ""},
			},
		},
		Styles: []string{"Title"},
	}
}

func loadFixture(t *testing.T, doc testdocx.Document) *Template {
	t.Helper()

	path := testdocx.Write(t, t.TempDir(), "template.docx", doc)
	tmpl, err := Load(path, normalize.New(), DefaultOptions())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return tmpl
}

func TestLoadIndexesHeaders(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, fixture())

	if tmpl.Name != "template.docx" {
		t.Fatalf("Name = %q, want template.docx", tmpl.Name)
	}
	if tmpl.TableCount() != 2 {
		t.Fatalf("TableCount = %d, want 2", tmpl.TableCount())
	}
	if diff := cmp.Diff([]string{"No. of Clients", "Percentage Under 25", "Spend"}, tmpl.Headers()); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	for _, raw := range []string{"Number Of Clients", "% under 25", "spend"} {
		if !tmpl.HasColumn(raw) {
			t.Fatalf("expected HasColumn(%q)", raw)
		}
	}
	if tmpl.HasColumn("Average") {
		t.Fatal("expected Average to be unknown")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.docx"), nil, DefaultOptions())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestParseRejectsNonDocx(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("not a zip"), nil, DefaultOptions()); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestWriterMatchErrors(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, fixture())
	w := tmpl.NewWriter()

	tests := []struct {
		year, header string
		want         error
	}{
		{"2012", "Average", ErrUnknownHeader},
		{"2014", "No. of Clients", ErrUnknownYear},
		{"2013", "Spend", ErrUnknownYear},
		{"2012", "", ErrUnknownHeader},
	}
	for _, tc := range tests {
		err := w.Write(tc.year, tc.header, "1")
		if !errors.Is(err, tc.want) {
			t.Fatalf("Write(%q, %q) error = %v, want %v", tc.year, tc.header, err, tc.want)
		}
		var matchErr *MatchError
		if !errors.As(err, &matchErr) || matchErr.Year != tc.year {
			t.Fatalf("expected *MatchError for %q, got %#v", tc.year, err)
		}
	}
	if w.Written() != 0 {
		t.Fatalf("Written = %d, want 0", w.Written())
	}
}

func TestWriterCellOutOfRange(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, testdocx.Document{
		Tables: [][][]string{{
			{"Year", "A", "B"},
			{"2012", "x"},
		}},
	})

	if err := tmpl.NewWriter().Write("2012", "B", "1"); !errors.Is(err, ErrCellOutOfRange) {
		t.Fatalf("expected ErrCellOutOfRange, got %v", err)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, fixture())
	w := tmpl.NewWriter()
	writes := [][3]string{
		{"2012", "Number of Clients", "12"},
		{"2013", "Number of Clients", "-"},
		{"2012", "% Under 25", "25.6%"},
		{"2012", "spend", "£1234"},
	}
	for _, write := range writes {
		if err := w.Write(write[0], write[1], write[2]); err != nil {
			t.Fatalf("Write(%v) returned error: %v", write, err)
		}
	}

	data, err := tmpl.Render(w, "Angus")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	got, err := testdocx.Read(data)
	if err != nil {
		t.Fatalf("read rendered docx: %v", err)
	}

	wantTables := [][][]string{
		{
			{"Year", "No. of Clients", "Percentage Under 25"},
			{"2012", "12", "25.6%"},
			{"2013", "-", ""},
		},
		{
			{"", "Spend", ""},
			{"2012", "£1234"},
		},
	}
	if diff := cmp.Diff(wantTables, got.Tables); diff != "" {
		t.Fatalf("tables mismatch (-want +got):\n%s", diff)
	}

	if got.Paragraphs[0] != "Angus" || got.ParagraphStyles[0] != "Title" {
		t.Fatalf("expected title paragraph first, got %q (style %q)", got.Paragraphs[0], got.ParagraphStyles[0])
	}
	if got.Paragraphs[1] != "Annual summary" {
		t.Fatalf("expected original first paragraph to follow title, got %q", got.Paragraphs[1])
	}
	if got.Title != "Angus" {
		t.Fatalf("core title = %q, want Angus", got.Title)
	}
	if diff := cmp.Diff([]string{"Normal", "Title", "CellStyle"}, got.StyleNames); diff != "" {
		t.Fatalf("style names mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderUsesFreshCopy(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, fixture())

	first := tmpl.NewWriter()
	if err := first.Write("2012", "Spend", "£1"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := tmpl.Render(first, "Angus"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	data, err := tmpl.Render(tmpl.NewWriter(), "")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	got, err := testdocx.Read(data)
	if err != nil {
		t.Fatalf("read rendered docx: %v", err)
	}
	if got.Tables[1][1][1] != "" {
		t.Fatalf("expected untouched cell in second render, got %q", got.Tables[1][1][1])
	}
	if got.Paragraphs[0] != "Annual summary" || got.Title != "" {
		t.Fatalf("expected no title in second render, got %q / %q", got.Paragraphs[0], got.Title)
	}
}

func TestHeaderCollisionLastTableWins(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, testdocx.Document{
		Tables: [][][]string{
			{{"Year", "No. Clients"}, {"2012", ""}},
			{{"Year", "Number Clients"}, {"2012", ""}},
		},
	})

	loc, err := tmpl.Locate("2012", "No. Clients")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if diff := cmp.Diff(Location{Table: 1, Row: 1, Cell: 1}, loc); diff != "" {
		t.Fatalf("location mismatch (-want +got):\n%s", diff)
	}
}

const mergedTable = `<w:tbl>` +
	`<w:tr><w:trPr><w:gridBefore w:val="1"/></w:trPr>` +
	`<w:tc><w:p><w:r><w:t>Clients</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:p><w:r><w:t>Spend</w:t></w:r></w:p></w:tc></w:tr>` +
	`<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>2012</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>` +
	`<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>` +
	`<w:tc><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>` +
	`<w:tr><w:trPr><w:gridBefore w:val="1"/></w:trPr>` +
	`<w:tc><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>` +
	`</w:tbl>`

func TestParseResolvesMergedCells(t *testing.T) {
	t.Parallel()

	tmpl := loadFixture(t, testdocx.Document{RawTables: []string{mergedTable}})

	if diff := cmp.Diff([]string{"Clients", "Spend"}, tmpl.Headers()); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}

	loc, err := tmpl.Locate("2012", "Clients")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if want := (Location{Table: 0, Row: 2, Cell: 1}); loc != want {
		t.Fatalf("Locate = %+v, want %+v", loc, want)
	}

	w := tmpl.NewWriter()
	if err := w.Write("2012", "Clients", "12"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Write("2012", "Spend", "£40"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Write("", "Spend", "x"); !errors.Is(err, ErrUnknownYear) {
		t.Fatalf("expected row without a year cell to be unknown, got %v", err)
	}

	data, err := tmpl.Render(w, "")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	got, err := testdocx.Read(data)
	if err != nil {
		t.Fatalf("read rendered document: %v", err)
	}
	want := [][]string{
		{"Clients", "Spend"},
		{"2012", "", ""},
		{"", "12", "£40"},
		{"", ""},
	}
	if diff := cmp.Diff(want, got.Tables[0]); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}
