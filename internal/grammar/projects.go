package grammar

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

// ProjectTableHeader marks a page that carries a per-county project table.
const ProjectTableHeader = "Development Name Developer City Code Notes Type"

// Project table field names, left to right.
const (
	FieldDevelopmentName   = "development_name"
	FieldDeveloper         = "developer"
	FieldCityCode          = "city_code"
	FieldNotes             = "notes"
	FieldProductType       = "product_type"
	FieldUnits             = "units"
	FieldNewRelease        = "new_release"
	FieldReleasedRemaining = "released_remaining"
	FieldTraffic           = "traffic"
	FieldWkSales           = "wk_sales"
	FieldWkCancels         = "wk_cancels"
	FieldSoldToDate        = "sold_to_date"
	FieldSoldYTD           = "sold_ytd"
	FieldAvgSalesWeek      = "avg_sales_week"
	FieldAvgSalesYTD       = "avg_sales_ytd"
)

// DefaultProjectBands is the column layout of the project table.
var DefaultProjectBands = []layout.Band{
	{Name: FieldDevelopmentName, Start: 20},
	{Name: FieldDeveloper, Start: 150},
	{Name: FieldCityCode, Start: 230},
	{Name: FieldNotes, Start: 280},
	{Name: FieldProductType, Start: 330},
	{Name: FieldUnits, Start: 370},
	{Name: FieldNewRelease, Start: 400},
	{Name: FieldReleasedRemaining, Start: 418},
	{Name: FieldTraffic, Start: 440},
	{Name: FieldWkSales, Start: 465},
	{Name: FieldWkCancels, Start: 488},
	{Name: FieldSoldToDate, Start: 508},
	{Name: FieldSoldYTD, Start: 528},
	{Name: FieldAvgSalesWeek, Start: 548},
	{Name: FieldAvgSalesYTD, Start: 572},
}

var (
	reCountyGroup   = regexp.MustCompile(`(?m)^(.+?)\s+\|\s+(.+)$`)
	reParticipating = regexp.MustCompile(`Projects Participating:\s*(\d+)`)

	reTotNoReporting    = regexp.MustCompile(`No\. Reporting:\s*(\d+)`)
	reTotAvgSales       = regexp.MustCompile(`Avg\. Sales:\s*([\d\.]+)`)
	reTotTrafficToSales = regexp.MustCompile(`Traffic to Sales:\s*([0-9\s:]+)`)
	reTotNet            = regexp.MustCompile(`Net:\s*(\d+)`)
)

// ProjectTable is what one project-table page yields.
type ProjectTable struct {
	Rows   []entity.ProjectStatRow
	Totals []entity.ProjectTotalsRow
}

// ParseProjectTable extracts development rows and TOTALS lines from a page
// whose text contains ProjectTableHeader. Other pages yield an empty result.
func ParseProjectTable(page *layout.Page, p Profile) ProjectTable {
	var out ProjectTable
	if page == nil || !strings.Contains(page.Text, ProjectTableHeader) {
		return out
	}

	var countyGroup *string
	if m := reCountyGroup.FindStringSubmatch(page.Text); m != nil {
		countyGroup = ptr(strings.TrimSpace(m[1]))
	}
	var participating *int64
	if m := reParticipating.FindStringSubmatch(page.Text); m != nil {
		participating = ToInt(m[1])
	}

	dataTop := p.DefaultDataTop
	found := false
	for _, w := range page.Words {
		if w.Text != "Development" {
			continue
		}
		if !found || w.Top+p.HeaderOffset > dataTop {
			dataTop = w.Top + p.HeaderOffset
		}
		found = true
	}

	var data []layout.Word
	for _, w := range page.Words {
		if w.Top >= dataTop {
			data = append(data, w)
		}
	}

	for _, line := range layout.GroupLines(data, p.LineTolerance) {
		text := line.Text()
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "TOTALS:") || strings.HasPrefix(text, "GRAND TOTALS:") {
			totals := ParseTotalsLine(text)
			totals.CountyGroup = countyGroup
			out.Totals = append(out.Totals, totals)
			continue
		}
		if strings.HasPrefix(text, CityCodesMarker) || strings.HasPrefix(text, "Project Types:") {
			continue
		}

		f := layout.AssignBands(p.ProjectBands, line.Words)
		if f[FieldDevelopmentName] == "" {
			continue
		}
		out.Rows = append(out.Rows, entity.ProjectStatRow{
			CountyGroup:           countyGroup,
			ProjectsParticipating: participating,
			DevelopmentName:       f[FieldDevelopmentName],
			Developer:             f[FieldDeveloper],
			CityCode:              NormalizeCityCode(f[FieldCityCode]),
			Notes:                 f[FieldNotes],
			ProductType:           f[FieldProductType],
			Units:                 ToInt(f[FieldUnits]),
			NewRelease:            ToInt(f[FieldNewRelease]),
			ReleasedRemaining:     ToInt(f[FieldReleasedRemaining]),
			Traffic:               ToInt(f[FieldTraffic]),
			WkSales:               ToInt(f[FieldWkSales]),
			WkCancels:             ToInt(f[FieldWkCancels]),
			SoldToDate:            ToInt(f[FieldSoldToDate]),
			SoldYTD:               ToInt(f[FieldSoldYTD]),
			AvgSalesWeek:          ToFloat(f[FieldAvgSalesWeek]),
			AvgSalesYTD:           ToFloat(f[FieldAvgSalesYTD]),
		})
	}
	return out
}

// ParseTotalsLine reads the four labeled values of a TOTALS line. Each label
// is optional; a missing one leaves its field nil.
func ParseTotalsLine(line string) entity.ProjectTotalsRow {
	var row entity.ProjectTotalsRow
	if m := reTotNoReporting.FindStringSubmatch(line); m != nil {
		row.NoReporting = ToInt(m[1])
	}
	if m := reTotAvgSales.FindStringSubmatch(line); m != nil {
		row.AvgSales = ToFloat(m[1])
	}
	if m := reTotTrafficToSales.FindStringSubmatch(line); m != nil {
		row.TrafficToSales = optional(strings.TrimSpace(m[1]))
	}
	if m := reTotNet.FindStringSubmatch(line); m != nil {
		row.NetSales = ToInt(m[1])
	}
	return row
}
