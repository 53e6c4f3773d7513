package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

func TestParseCountySummaryLine(t *testing.T) {
	got, ok := ParseCountySummaryLine("Alameda 12 450 102 5 97 8.50 7.90 +3% 7.50 +5%")
	if !ok {
		t.Fatal("expected the line to match")
	}
	want := entity.CountySummaryRow{
		CountyGroup: "Alameda",
		Projects:    ptr(int64(12)),
		Traffic:     ptr(int64(450)),
		Sales:       ptr(int64(102)),
		Cancels:     ptr(int64(5)),
		NetSales:    ptr(int64(97)),
		AvgSales:    ptr(8.5),
		YTDAvg:      ptr(7.9),
		YTDDiff:     "+3%",
		Prev13Avg:   ptr(7.5),
		Prev13Diff:  "+5%",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCountySummaryLine_MultiWordLabel(t *testing.T) {
	got, ok := ParseCountySummaryLine("Contra Costa / Tri-Valley 20 900 40 2 38 1.90 2.10 -12% 2.00 -5%")
	if !ok {
		t.Fatal("expected the line to match")
	}
	if got.CountyGroup != "Contra Costa / Tri-Valley" {
		t.Errorf("label: got %q", got.CountyGroup)
	}
	if got.YTDDiff != "-12%" || got.Prev13Diff != "-5%" {
		t.Errorf("percents: got %q / %q", got.YTDDiff, got.Prev13Diff)
	}
}

func TestParseCountySummary_SkipsMalformedLines(t *testing.T) {
	text := `County Projects Traffic Sales
Alameda 12 450 102 5 97 8.50 7.90 +3% 7.50 +5%
Marin 3 40 2 0 2 0.67 0.80 -4 0.70 -1%

Santa Clara 25 1200 80 6 74 2.96 3.10 -5% 3.00 1%
Totals are preliminary`

	rows := ParseCountySummary(text)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2: %#v", len(rows), rows)
	}
	if rows[0].CountyGroup != "Alameda" || rows[1].CountyGroup != "Santa Clara" {
		t.Errorf("unexpected groups: %q, %q", rows[0].CountyGroup, rows[1].CountyGroup)
	}
	if rows[1].Prev13Diff != "1%" {
		t.Errorf("prev13 diff: got %q", rows[1].Prev13Diff)
	}
}
