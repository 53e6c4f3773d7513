package grammar

import (
	"regexp"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

var reNumber = regexp.MustCompile(`\d+\.\d+|\d+`)

// column indexes of the two per-project averages in the comparison table
const (
	colAvgProjectSales     = 6
	colYearEndAvgProjSales = 7
)

// ParseYearlyComparison reads the historical comparison table, which is the
// second table detected on the header page. The year and the four weekly
// averages are packed into the first cell, so they are recovered by scanning
// numbers rather than by column.
func ParseYearlyComparison(tables []layout.Table) []entity.YearlyComparisonRow {
	if len(tables) < 2 {
		return nil
	}
	table := tables[1]
	if len(table) < 2 {
		return nil
	}

	var rows []entity.YearlyComparisonRow
	for _, row := range table[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		nums := reNumber.FindAllString(row[0], -1)
		if len(nums) < 5 {
			continue
		}
		year := ToInt(nums[0])
		if year == nil {
			continue
		}
		rows = append(rows, entity.YearlyComparisonRow{
			Year:                *year,
			AvgWeeklyProjects:   ToFloat(nums[1]),
			AvgWeeklyTraffic:    ToFloat(nums[2]),
			AvgWeeklySales:      ToFloat(nums[3]),
			AvgWeeklyCancels:    ToFloat(nums[4]),
			AvgProjectSales:     ToFloat(cell(row, colAvgProjectSales)),
			YearEndAvgProjSales: ToFloat(cell(row, colYearEndAvgProjSales)),
		})
	}
	return rows
}

// cell returns row[i], or "" when the row is too short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
