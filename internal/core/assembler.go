package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/grammar"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

// Assembler runs the section grammars over the pages of one document.
type Assembler struct {
	profile grammar.Profile
	logger  *slog.Logger
}

func NewAssembler(profile grammar.Profile, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{profile: profile, logger: logger}
}

// Assemble decodes pages in order and collects every section the grammars
// recognize. Page 1 carries the header, the county summary, the weekly
// metrics and the yearly comparison; city codes, project tables and MLS
// surveys are looked for on every page. ctx is checked before each page.
func (a *Assembler) Assemble(ctx context.Context, filename string, doc layout.Document) (*entity.ReportBundle, error) {
	n := doc.NumPages()
	bundle := &entity.ReportBundle{
		Report: entity.Report{Filename: filename, PageCount: n},
	}

	var cityCodes []entity.CityCodeRow
	for num := 1; num <= n; num++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("before page %d: %w", num, err)
		}
		page, err := doc.Page(ctx, num)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", num, err)
		}

		if num == 1 {
			h := grammar.ParseHeader(page.Text, a.profile.RegionMarkers)
			bundle.Report.WeekNum = h.WeekNum
			bundle.Report.WeekEnding = h.WeekEnding
			bundle.Report.Region = h.Region

			bundle.CountySummary = append(bundle.CountySummary, grammar.ParseCountySummary(page.Text)...)
			bundle.WeeklyMetrics = append(bundle.WeeklyMetrics, grammar.ParseWeeklyMetrics(page.Text)...)
			bundle.YearlyComparison = append(bundle.YearlyComparison, grammar.ParseYearlyComparison(page.Tables)...)
		}

		cityCodes = append(cityCodes, grammar.ParseCityCodes(page.Text)...)
		projects := grammar.ParseProjectTable(page, a.profile)
		bundle.ProjectStats = append(bundle.ProjectStats, projects.Rows...)
		bundle.ProjectTotals = append(bundle.ProjectTotals, projects.Totals...)
		bundle.MlsSurvey = append(bundle.MlsSurvey, grammar.ParseMlsSurvey(page)...)

		a.logger.Debug("page assembled", "filename", filename, "page", num,
			"words", len(page.Words), "tables", len(page.Tables),
			"projects", len(projects.Rows))
	}
	bundle.CityCodes = grammar.DedupCityCodes(cityCodes)
	return bundle, nil
}
