package entity

// Weekly metric labels.
const (
	MetricCurrentWeekTotals = "current_week_totals"
	MetricYearAgo           = "year_ago"
	MetricPerProjectAverage = "per_project_average"
	MetricPercentChange     = "percent_change"
)

// WeeklyMetric is one labeled summary block. Which fields are set depends on Label:
// per_project_average carries fractional sales/cancels/net values, and
// percent_change carries only the *Pct strings.
type WeeklyMetric struct {
	Label          string   `json:"label"`
	AsOfDate       *string  `json:"as_of_date,omitempty"`
	TrafficToSales *string  `json:"traffic_to_sales,omitempty"`
	Projects       *int64   `json:"projects,omitempty"`
	Traffic        *int64   `json:"traffic,omitempty"`
	Sales          *float64 `json:"sales,omitempty"`
	Cancels        *float64 `json:"cancels,omitempty"`
	NetSales       *float64 `json:"net_sales,omitempty"`
	AvgSales       *float64 `json:"avg_sales,omitempty"`
	YTDAvg         *float64 `json:"ytd_avg,omitempty"`
	YTDDiff        *string  `json:"ytd_diff,omitempty"`
	Prev13Avg      *float64 `json:"prev13_avg,omitempty"`
	Prev13Diff     *string  `json:"prev13_diff,omitempty"`

	ProjectsPct  *string `json:"projects_pct,omitempty"`
	TrafficPct   *string `json:"traffic_pct,omitempty"`
	SalesPct     *string `json:"sales_pct,omitempty"`
	CancelsPct   *string `json:"cancels_pct,omitempty"`
	NetSalesPct  *string `json:"net_sales_pct,omitempty"`
	AvgSalesPct  *string `json:"avg_sales_pct,omitempty"`
	YTDAvgPct    *string `json:"ytd_avg_pct,omitempty"`
	Prev13AvgPct *string `json:"prev13_avg_pct,omitempty"`
}
