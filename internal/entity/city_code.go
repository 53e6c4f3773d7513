package entity

// CityCodeRow maps a short city code to its full city name within one report.
type CityCodeRow struct {
	CityCode string `json:"city_code"`
	CityName string `json:"city_name"`
}
