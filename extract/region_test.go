package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rows   [][]any
		want   Region
		wantOK bool
	}{
		{
			name:   "anchor at A1 without end marker",
			rows:   [][]any{{"Constituency", "H"}, {"A", 1.0}, {"B", 2.0}},
			want:   Region{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 2},
			wantOK: true,
		},
		{
			name: "column-major scan prefers the leftmost column",
			rows: [][]any{
				{nil, nil, "Local Authority"},
				{nil, nil, nil},
				{nil, nil, nil},
				{nil, nil, nil},
				{nil, "Constituency", nil},
			},
			want:   Region{StartRow: 5, StartCol: 2, EndRow: 5, EndCol: 3},
			wantOK: true,
		},
		{
			name: "topmost end marker wins",
			rows: [][]any{
				{"Constituency", "H"},
				{"A", 1.0},
				{"Total Clients", 1.0},
				{"B", 2.0},
				{"All Constituents", 3.0},
			},
			want:   Region{StartRow: 1, StartCol: 1, EndRow: 3, EndCol: 2},
			wantOK: true,
		},
		{
			name:   "anchor label is trimmed",
			rows:   [][]any{{" Constituency ", "H"}},
			want:   Region{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 2},
			wantOK: true,
		},
		{
			name:   "no anchor",
			rows:   [][]any{{"Region", "H"}, {"A", 1.0}},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := DefaultLocator().Locate(sheetOf("2012", "", tc.rows))
			if ok != tc.wantOK {
				t.Fatalf("Locate ok = %v, want %v", ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Locate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocateIgnoresAnchorOutsideSearchWindow(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 17)
	for i := range rows {
		rows[i] = []any{nil}
	}
	rows[16] = []any{"Constituency", "H"}

	if _, ok := DefaultLocator().Locate(sheetOf("2012", "", rows)); ok {
		t.Fatal("expected anchor in row 17 to be ignored")
	}

	wide := [][]any{{nil, nil, nil, nil, nil, nil, nil, nil, "Constituency"}}
	if _, ok := DefaultLocator().Locate(sheetOf("2012", "", wide)); ok {
		t.Fatal("expected anchor in column 9 to be ignored")
	}
}
