package sheets

import (
	"testing"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

func TestRangeFor(t *testing.T) {
	cases := []struct {
		sheet  string
		anchor review.Anchor
		want   string
	}{
		{"Checklist Template", review.Anchor{Row: 26, Col: 2}, "'Checklist Template'!B26"},
		{"Data", review.Anchor{Row: 1, Col: 1}, "'Data'!A1"},
		{"Wide", review.Anchor{Row: 3, Col: 28}, "'Wide'!AB3"},
	}
	for _, tc := range cases {
		if got := RangeFor(tc.sheet, tc.anchor); got != tc.want {
			t.Fatalf("RangeFor(%q, %+v) = %q, want %q", tc.sheet, tc.anchor, got, tc.want)
		}
	}
}
