package entity

// YearlyComparisonRow is one historical year of the header-page comparison table.
type YearlyComparisonRow struct {
	Year                int64    `json:"year"`
	AvgWeeklyProjects   *float64 `json:"avg_weekly_projects,omitempty"`
	AvgWeeklyTraffic    *float64 `json:"avg_weekly_traffic,omitempty"`
	AvgWeeklySales      *float64 `json:"avg_weekly_sales,omitempty"`
	AvgWeeklyCancels    *float64 `json:"avg_weekly_cancels,omitempty"`
	AvgProjectSales     *float64 `json:"avg_project_sales,omitempty"`
	YearEndAvgProjSales *float64 `json:"year_end_avg_proj_sales,omitempty"`
}
