package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

func TestParseYearlyComparison(t *testing.T) {
	tables := []layout.Table{
		{{"County", "Projects"}},
		{
			{"Year Projects Traffic Sales Cancels", "", "", "", "", "", "Avg/Proj", "Year End"},
			{"2024 78.5 1900 80.2 5.1", "", "", "", "", "", "1.02", "0.98"},
			{"2023 70 1500 60 4", "", "", "", "", "", "", "n/a"},
			{"Avg", "", "", "", "", "", "", ""},
			{"2022 65 1400", "", "", "", "", "", "0.9", "0.9"},
		},
	}
	want := []entity.YearlyComparisonRow{
		{
			Year:                2024,
			AvgWeeklyProjects:   ptr(78.5),
			AvgWeeklyTraffic:    ptr(1900.0),
			AvgWeeklySales:      ptr(80.2),
			AvgWeeklyCancels:    ptr(5.1),
			AvgProjectSales:     ptr(1.02),
			YearEndAvgProjSales: ptr(0.98),
		},
		{
			Year:              2023,
			AvgWeeklyProjects: ptr(70.0),
			AvgWeeklyTraffic:  ptr(1500.0),
			AvgWeeklySales:    ptr(60.0),
			AvgWeeklyCancels:  ptr(4.0),
		},
	}
	if diff := cmp.Diff(want, ParseYearlyComparison(tables)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYearlyComparison_TooFewTables(t *testing.T) {
	if got := ParseYearlyComparison([]layout.Table{{{"2024 1 2 3 4"}}}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}
