package entity

// ProjectStatRow is one development listed in a per-county project table.
type ProjectStatRow struct {
	CountyGroup           *string  `json:"county_group,omitempty"`
	ProjectsParticipating *int64   `json:"projects_participating,omitempty"`
	DevelopmentName       string   `json:"development_name"`
	Developer             string   `json:"developer"`
	CityCode              string   `json:"city_code"`
	Notes                 string   `json:"notes"`
	ProductType           string   `json:"product_type"`
	Units                 *int64   `json:"units,omitempty"`
	NewRelease            *int64   `json:"new_release,omitempty"`
	ReleasedRemaining     *int64   `json:"released_remaining,omitempty"`
	Traffic               *int64   `json:"traffic,omitempty"`
	WkSales               *int64   `json:"wk_sales,omitempty"`
	WkCancels             *int64   `json:"wk_cancels,omitempty"`
	SoldToDate            *int64   `json:"sold_to_date,omitempty"`
	SoldYTD               *int64   `json:"sold_ytd,omitempty"`
	AvgSalesWeek          *float64 `json:"avg_sales_week,omitempty"`
	AvgSalesYTD           *float64 `json:"avg_sales_ytd,omitempty"`
}

// ProjectTotalsRow is a TOTALS:/GRAND TOTALS: line closing a project table.
// A field is nil when its labeled sub-phrase is missing from the line.
type ProjectTotalsRow struct {
	CountyGroup    *string  `json:"county_group,omitempty"`
	NoReporting    *int64   `json:"no_reporting,omitempty"`
	AvgSales       *float64 `json:"avg_sales,omitempty"`
	TrafficToSales *string  `json:"traffic_to_sales,omitempty"`
	NetSales       *int64   `json:"net_sales,omitempty"`
}
