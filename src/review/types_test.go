package review

import "testing"

func TestParseAnchor(t *testing.T) {
	cases := []struct {
		cell string
		want Anchor
	}{
		{"B26", Anchor{Row: 26, Col: 2}},
		{"A1", Anchor{Row: 1, Col: 1}},
		{"AA10", Anchor{Row: 10, Col: 27}},
		{"ab3", Anchor{Row: 3, Col: 28}},
		{" C4 ", Anchor{Row: 4, Col: 3}},
	}
	for _, tc := range cases {
		got, err := ParseAnchor(tc.cell)
		if err != nil {
			t.Fatalf("ParseAnchor(%q) returned error: %v", tc.cell, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAnchor(%q) = %+v, want %+v", tc.cell, got, tc.want)
		}
	}
}

func TestParseAnchorRejectsMalformedReferences(t *testing.T) {
	for _, cell := range []string{"", "26", "B", "B2X", "B0"} {
		if _, err := ParseAnchor(cell); err == nil {
			t.Fatalf("ParseAnchor(%q) should fail", cell)
		}
	}
}

func TestAnchorA1RoundTrip(t *testing.T) {
	for _, cell := range []string{"A1", "B26", "Z9", "AA10", "AB3"} {
		a, err := ParseAnchor(cell)
		if err != nil {
			t.Fatalf("ParseAnchor(%q) returned error: %v", cell, err)
		}
		if got := a.A1(); got != cell {
			t.Fatalf("round trip of %q gave %q", cell, got)
		}
	}
}

func TestParsedTableAllRowsAndWidth(t *testing.T) {
	headless := &ParsedTable{Rows: [][]string{{"a", "b"}, {"c", "d"}}}
	if got := len(headless.AllRows()); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if headless.Width() != 2 {
		t.Fatalf("expected width 2, got %d", headless.Width())
	}

	headed := &ParsedTable{Header: []string{"x", "y", "z"}, Rows: [][]string{{"1", "2", "3"}}}
	rows := headed.AllRows()
	if len(rows) != 2 || rows[0][0] != "x" || rows[1][0] != "1" {
		t.Fatalf("header not first in AllRows: %v", rows)
	}
	if headed.Width() != 3 {
		t.Fatalf("expected width 3, got %d", headed.Width())
	}
}
