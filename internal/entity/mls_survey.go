package entity

// MlsSurveyRow is one month line of a "Monthly MLS Survey" table.
type MlsSurveyRow struct {
	MarketName string `json:"market_name"`
	Month      string `json:"month"`
	Active     *int64 `json:"active,omitempty"`
	ActiveDOM  *int64 `json:"active_dom,omitempty"`
	Pending    *int64 `json:"pending,omitempty"`
	PendingDOM *int64 `json:"pending_dom,omitempty"`
	Closed     *int64 `json:"closed,omitempty"`
	AvgPrice   *int64 `json:"avg_price,omitempty"`
}
