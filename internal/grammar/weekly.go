package grammar

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

// shared tail of the totals and year-ago blocks:
// projects traffic sales cancels net avg ytd ytd% prev13 prev13%
const metricTail = `(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+` +
	`(\d+\.\d+)\s+(\d+\.\d+)\s+(` + pctPattern + `)\s+(\d+\.\d+)\s+(` + pctPattern + `)`

var (
	reCurrentWeek = regexp.MustCompile(
		`Current Week Totals Traffic : Sales (\d+)\s*:\s*(\d+)\s+` + metricTail)
	reYearAgo = regexp.MustCompile(
		`Year Ago - (\d{2}/\d{2}/\d{4}) Traffic : Sales (\d+)\s*:\s*(\d+)\s+` + metricTail)
	rePerProject = regexp.MustCompile(
		`Per Project Average\s+(\d+)\s+(\d+\.\d+)\s+(\d+\.\d+)\s+(\d+\.\d+)`)
	rePercentChange = regexp.MustCompile(
		`% Change` + repeatPct(8))
)

func repeatPct(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += `\s+(` + pctPattern + `)`
	}
	return s
}

// ParseWeeklyMetrics searches the page text for each of the four summary
// blocks independently. A block that is absent or malformed is left out.
func ParseWeeklyMetrics(text string) []entity.WeeklyMetric {
	var out []entity.WeeklyMetric

	if m := reCurrentWeek.FindStringSubmatch(text); m != nil {
		row := metricFromTail(entity.MetricCurrentWeekTotals, m[3:])
		row.TrafficToSales = ptr(fmt.Sprintf("%s : %s", m[1], m[2]))
		out = append(out, row)
	}

	if m := reYearAgo.FindStringSubmatch(text); m != nil {
		row := metricFromTail(entity.MetricYearAgo, m[4:])
		row.AsOfDate = ptr(m[1])
		row.TrafficToSales = ptr(fmt.Sprintf("%s : %s", m[2], m[3]))
		out = append(out, row)
	}

	if m := rePerProject.FindStringSubmatch(text); m != nil {
		out = append(out, entity.WeeklyMetric{
			Label:    entity.MetricPerProjectAverage,
			Traffic:  ToInt(m[1]),
			Sales:    ToFloat(m[2]),
			Cancels:  ToFloat(m[3]),
			NetSales: ToFloat(m[4]),
		})
	}

	if m := rePercentChange.FindStringSubmatch(text); m != nil {
		out = append(out, entity.WeeklyMetric{
			Label:        entity.MetricPercentChange,
			ProjectsPct:  ptr(m[1]),
			TrafficPct:   ptr(m[2]),
			SalesPct:     ptr(m[3]),
			CancelsPct:   ptr(m[4]),
			NetSalesPct:  ptr(m[5]),
			AvgSalesPct:  ptr(m[6]),
			YTDAvgPct:    ptr(m[7]),
			Prev13AvgPct: ptr(m[8]),
		})
	}
	return out
}

// metricFromTail maps the ten captures of metricTail.
func metricFromTail(label string, g []string) entity.WeeklyMetric {
	return entity.WeeklyMetric{
		Label:      label,
		Projects:   ToInt(g[0]),
		Traffic:    ToInt(g[1]),
		Sales:      ToFloat(g[2]),
		Cancels:    ToFloat(g[3]),
		NetSales:   ToFloat(g[4]),
		AvgSales:   ToFloat(g[5]),
		YTDAvg:     ToFloat(g[6]),
		YTDDiff:    ptr(g[7]),
		Prev13Avg:  ToFloat(g[8]),
		Prev13Diff: ptr(g[9]),
	}
}
