package grammar

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

// percent tokens keep their sign; the source prints both "-4%" and "+3%"
const pctPattern = `[+-]?\d+(?:\.\d+)?%`

var reCountyLine = regexp.MustCompile(
	`^(?P<county>.+?)\s+` +
		`(?P<projects>\d+)\s+` +
		`(?P<traffic>\d+)\s+` +
		`(?P<sales>\d+)\s+` +
		`(?P<cancels>\d+)\s+` +
		`(?P<net_sales>\d+)\s+` +
		`(?P<avg_sales>\d+\.\d+)\s+` +
		`(?P<ytd_avg>\d+\.\d+)\s+` +
		`(?P<ytd_diff>` + pctPattern + `)\s+` +
		`(?P<prev13_avg>\d+\.\d+)\s+` +
		`(?P<prev13_diff>` + pctPattern + `)$`,
)

// ParseCountySummaryLine matches one summary line of the form
// "<label> <p> <t> <s> <c> <n> <avg> <ytd> <ytd%> <p13> <p13%>".
func ParseCountySummaryLine(line string) (entity.CountySummaryRow, bool) {
	m := reCountyLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return entity.CountySummaryRow{}, false
	}
	g := func(name string) string { return m[reCountyLine.SubexpIndex(name)] }
	return entity.CountySummaryRow{
		CountyGroup: g("county"),
		Projects:    ToInt(g("projects")),
		Traffic:     ToInt(g("traffic")),
		Sales:       ToInt(g("sales")),
		Cancels:     ToInt(g("cancels")),
		NetSales:    ToInt(g("net_sales")),
		AvgSales:    ToFloat(g("avg_sales")),
		YTDAvg:      ToFloat(g("ytd_avg")),
		YTDDiff:     g("ytd_diff"),
		Prev13Avg:   ToFloat(g("prev13_avg")),
		Prev13Diff:  g("prev13_diff"),
	}, true
}

// ParseCountySummary returns every line of text that matches the county
// summary grammar, in page order.
func ParseCountySummary(text string) []entity.CountySummaryRow {
	var rows []entity.CountySummaryRow
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if row, ok := ParseCountySummaryLine(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
