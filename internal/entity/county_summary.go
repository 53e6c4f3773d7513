package entity

// CountySummaryRow is one county/region line of the first-page summary table.
// Percent fields keep the source text verbatim, sign and '%' included.
type CountySummaryRow struct {
	CountyGroup string   `json:"county_group"`
	Projects    *int64   `json:"projects,omitempty"`
	Traffic     *int64   `json:"traffic,omitempty"`
	Sales       *int64   `json:"sales,omitempty"`
	Cancels     *int64   `json:"cancels,omitempty"`
	NetSales    *int64   `json:"net_sales,omitempty"`
	AvgSales    *float64 `json:"avg_sales,omitempty"`
	YTDAvg      *float64 `json:"ytd_avg,omitempty"`
	YTDDiff     string   `json:"ytd_diff"`
	Prev13Avg   *float64 `json:"prev13_avg,omitempty"`
	Prev13Diff  string   `json:"prev13_diff"`
}
