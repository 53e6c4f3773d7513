package entity

import "time"

// Report represents one ingested document for data transfer between layers.
type Report struct {
	ID         int64     `json:"id"`
	IngestID   string    `json:"ingest_id"`
	Filename   string    `json:"filename"`
	WeekEnding *string   `json:"report_week_ending,omitempty"`
	WeekNum    *int64    `json:"report_week_num,omitempty"`
	Region     *string   `json:"region,omitempty"`
	PageCount  int       `json:"page_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportBundle is everything extracted from one document, scoped to a single Report.
// Child rows carry no report id until the store assigns one.
type ReportBundle struct {
	Report           Report                `json:"report"`
	CountySummary    []CountySummaryRow    `json:"county_summary"`
	WeeklyMetrics    []WeeklyMetric        `json:"weekly_metrics"`
	YearlyComparison []YearlyComparisonRow `json:"yearly_comparison"`
	ProjectStats     []ProjectStatRow      `json:"project_stats"`
	ProjectTotals    []ProjectTotalsRow    `json:"project_totals"`
	CityCodes        []CityCodeRow         `json:"city_codes"`
	MlsSurvey        []MlsSurveyRow        `json:"mls_survey"`
}

// RowCount returns the number of child rows in the bundle.
func (b *ReportBundle) RowCount() int {
	return len(b.CountySummary) + len(b.WeeklyMetrics) + len(b.YearlyComparison) +
		len(b.ProjectStats) + len(b.ProjectTotals) + len(b.CityCodes) + len(b.MlsSurvey)
}
