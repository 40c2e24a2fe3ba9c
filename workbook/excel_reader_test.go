package workbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeExcelFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "2012"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if _, err := f.NewSheet("Notes"); err != nil {
		t.Fatalf("add sheet: %v", err)
	}

	values := map[string]any{
		"A1": "Constituency",
		"B1": "Percentage Clients",
		"C1": "Gain",
		"D1": "Flag",
		"A2": "Angus",
		"B2": 0.256,
		"C2": 1234,
		"D2": true,
		"A3": "Moray",
		"B3": "n/a",
	}
	for cell, value := range values {
		if err := f.SetCellValue("2012", cell, value); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}

	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		t.Fatalf("new percent style: %v", err)
	}
	currencyCode := `"£"#,##0`
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyCode})
	if err != nil {
		t.Fatalf("new currency style: %v", err)
	}
	if err := f.SetCellStyle("2012", "B2", "B3", percent); err != nil {
		t.Fatalf("style B2: %v", err)
	}
	if err := f.SetCellStyle("2012", "C2", "C2", currency); err != nil {
		t.Fatalf("style C2: %v", err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func TestExcelReader_ReadsTypedCellsAndFormats(t *testing.T) {
	t.Parallel()

	path := writeExcelFixture(t)

	book, err := (&ExcelReader{}).Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Name != "book.xlsx" {
		t.Fatalf("unexpected book name %q", book.Name)
	}
	if got := strings.Join(book.SheetNames(), ","); got != "2012,Notes" {
		t.Fatalf("unexpected sheet names %q", got)
	}

	sheet, ok := book.Sheet("2012")
	if !ok {
		t.Fatalf("sheet 2012 missing")
	}
	if sheet.MaxRow() != 3 || sheet.MaxColumn() != 4 {
		t.Fatalf("unexpected extent rows=%d cols=%d", sheet.MaxRow(), sheet.MaxColumn())
	}

	if got := sheet.Cell(1, 1).Value; got != "Constituency" {
		t.Fatalf("expected anchor text, got %#v", got)
	}
	pct := sheet.Cell(2, 2)
	if v, ok := pct.Value.(float64); !ok || v != 0.256 {
		t.Fatalf("expected float 0.256, got %#v", pct.Value)
	}
	if pct.NumFmt != "0.00%" {
		t.Fatalf("expected built-in percent format, got %q", pct.NumFmt)
	}
	money := sheet.Cell(2, 3)
	if v, ok := money.Value.(float64); !ok || v != 1234 {
		t.Fatalf("expected float 1234, got %#v", money.Value)
	}
	if !strings.Contains(money.NumFmt, "£") {
		t.Fatalf("expected custom currency format, got %q", money.NumFmt)
	}
	if v, ok := sheet.Cell(2, 4).Value.(bool); !ok || !v {
		t.Fatalf("expected bool true, got %#v", sheet.Cell(2, 4).Value)
	}
	if v, ok := sheet.Cell(3, 2).Value.(string); !ok || v != "n/a" {
		t.Fatalf("expected text n/a, got %#v", sheet.Cell(3, 2).Value)
	}
	if !sheet.Cell(3, 3).Blank() {
		t.Fatalf("expected blank cell at C3")
	}
}

func TestNumFmtCode(t *testing.T) {
	t.Parallel()

	custom := "0.0%"
	empty := ""
	tests := []struct {
		name   string
		id     int
		custom *string
		want   string
	}{
		{name: "general", id: 0, want: "General"},
		{name: "two decimals", id: 2, want: "0.00"},
		{name: "percent", id: 9, want: "0%"},
		{name: "custom wins", id: 164, custom: &custom, want: "0.0%"},
		{name: "empty custom falls back", id: 10, custom: &empty, want: "0.00%"},
		{name: "unknown id", id: 300, want: "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := numFmtCode(tt.id, tt.custom); got != tt.want {
				t.Fatalf("numFmtCode(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestExcelReader_DateCellsReadAsTime(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()

	opened := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	values := map[string]any{"A1": "Constituency", "B1": "Opened", "C1": "Clients", "A2": "Angus", "B2": opened, "C2": 40969}
	for cell, value := range values {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	monthYear := "mmm-yy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &monthYear})
	if err != nil {
		t.Fatalf("new date style: %v", err)
	}
	if err := f.SetCellStyle("Sheet1", "B2", "B2", dateStyle); err != nil {
		t.Fatalf("style B2: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dates.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}

	book, err := (&ExcelReader{}).Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sheet, _ := book.Sheet("Sheet1")

	date := sheet.Cell(2, 2)
	got, ok := date.Value.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time for date cell, got %#v (format %q)", date.Value, date.NumFmt)
	}
	if !got.Equal(opened) {
		t.Fatalf("expected %v, got %v", opened, got)
	}
	if date.Text() != "2012-03-01 00:00:00" {
		t.Fatalf("unexpected date text %q", date.Text())
	}
	if v, ok := sheet.Cell(2, 3).Value.(float64); !ok || v != 40969 {
		t.Fatalf("expected plain number to stay float64, got %#v", sheet.Cell(2, 3).Value)
	}
}

func TestIsDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{code: "General", want: false},
		{code: "0.0%", want: false},
		{code: `"£"#,##0`, want: false},
		{code: "0.00E+00", want: false},
		{code: `[Red]#,##0;[Blue]-#,##0`, want: false},
		{code: `#,##0_);("$"#,##0)`, want: false},
		{code: `0" days"`, want: false},
		{code: `\d0`, want: false},
		{code: "@", want: false},
		{code: builtinNumFmt[14], want: true},
		{code: builtinNumFmt[17], want: true},
		{code: builtinNumFmt[22], want: true},
		{code: builtinNumFmt[46], want: true},
		{code: builtinNumFmt[47], want: true},
		{code: "[$-809]dd/mm/yyyy", want: true},
		{code: "[h]", want: true},
		{code: "yyyy", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsDateFormat(tt.code); got != tt.want {
				t.Fatalf("IsDateFormat(%q) = %t, want %t", tt.code, got, tt.want)
			}
		})
	}
}
