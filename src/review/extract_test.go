package review

import (
	"errors"
	"testing"
)

func TestExtractFencedBlock(t *testing.T) {
	response := "Here is the completed checklist.\n\n" +
		"```\n" +
		"Item\tStatus\tNotes\n" +
		"1.1\tPass\tScope is explicit\n" +
		"1.2\tFail\tNo termination clause\n" +
		"```\n\n" +
		"Let me know if anything needs revisiting.\n"

	table, err := Extractor{}.Extract(response)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(table.Rows) != 3 || table.Width() != 3 {
		t.Fatalf("expected 3x3 table, got %dx%d", len(table.Rows), table.Width())
	}
	if table.Rows[1][2] != "Scope is explicit" {
		t.Fatalf("unexpected cell value: %q", table.Rows[1][2])
	}
	if table.Rows[2][1] != "Fail" {
		t.Fatalf("unexpected cell value: %q", table.Rows[2][1])
	}
}

func TestExtractBareTabbedRun(t *testing.T) {
	response := "No fences here, just the rows:\n\n" +
		"a\tb\tc\n" +
		"d\te\tf\n\n" +
		"Done.\n"

	table, err := Extractor{}.Extract(response)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(table.Rows) != 2 || table.Rows[1][0] != "d" {
		t.Fatalf("unexpected table: %v", table.Rows)
	}
}

func TestExtractNoStructuredBlock(t *testing.T) {
	_, err := Extractor{}.Extract("Pure prose with no tabular content at all.")
	if !errors.Is(err, ErrNoStructuredBlock) {
		t.Fatalf("expected ErrNoStructuredBlock, got %v", err)
	}
}

func TestExtractPicksLongestBlock(t *testing.T) {
	response := "```\n" +
		"short\trow\n" +
		"```\n" +
		"```\n" +
		"a\t1\n" +
		"b\t2\n" +
		"c\t3\n" +
		"```\n"

	table, err := Extractor{}.Extract(response)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(table.Rows) != 3 || table.Rows[0][0] != "a" {
		t.Fatalf("longest block not selected: %v", table.Rows)
	}
}

func TestExtractTieIsAmbiguous(t *testing.T) {
	response := "```\n" +
		"a\t1\n" +
		"b\t2\n" +
		"```\n" +
		"```\n" +
		"c\t3\n" +
		"d\t4\n" +
		"```\n"

	_, err := Extractor{}.Extract(response)
	if !errors.Is(err, ErrAmbiguousStructuredBlock) {
		t.Fatalf("expected ErrAmbiguousStructuredBlock, got %v", err)
	}
}

func TestExtractRejectsRaggedRows(t *testing.T) {
	response := "```\n" +
		"a\tb\tc\n" +
		"d\te\n" +
		"```\n"

	_, err := Extractor{}.Extract(response)
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestExtractPadRagged(t *testing.T) {
	response := "```\n" +
		"a\tb\tc\n" +
		"d\te\n" +
		"f\tg\th\ti\n" +
		"```\n"

	table, err := Extractor{PadRagged: true}.Extract(response)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if table.Width() != 3 {
		t.Fatalf("expected width 3, got %d", table.Width())
	}
	if table.Rows[1][2] != "" {
		t.Fatalf("short row not padded: %v", table.Rows[1])
	}
	if len(table.Rows[2]) != 3 || table.Rows[2][2] != "h" {
		t.Fatalf("long row not truncated: %v", table.Rows[2])
	}
}

func TestExtractFirstRowHeader(t *testing.T) {
	response := "```\n" +
		"Item\tStatus\n" +
		"1.1\tPass\n" +
		"```\n"

	table, err := Extractor{FirstRowHeader: true}.Extract(response)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(table.Header) != 2 || table.Header[0] != "Item" {
		t.Fatalf("header not split off: %v", table.Header)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "Pass" {
		t.Fatalf("unexpected data rows: %v", table.Rows)
	}
}
