package grammar

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

// MlsSurveyHeading marks a page with monthly MLS survey tables.
const MlsSurveyHeading = "Monthly MLS Survey"

const unknownMarket = "Unknown Market"

var reMonthToken = regexp.MustCompile(`^[A-Za-z]{3}-\d{2}$`)

// ParseMlsSurvey reads month rows ("Jan-24") from every table on a page that
// carries the MLS survey heading. The heading line names the market.
func ParseMlsSurvey(page *layout.Page) []entity.MlsSurveyRow {
	if page == nil || !strings.Contains(page.Text, MlsSurveyHeading) {
		return nil
	}

	market := unknownMarket
	for _, line := range strings.Split(page.Text, "\n") {
		if strings.Contains(line, MlsSurveyHeading) {
			if s := strings.TrimSpace(line); s != "" {
				market = s
			}
			break
		}
	}

	var rows []entity.MlsSurveyRow
	for _, table := range page.Tables {
		for _, row := range table {
			if len(row) == 0 {
				continue
			}
			month := strings.TrimSpace(row[0])
			if !reMonthToken.MatchString(month) {
				continue
			}
			rows = append(rows, entity.MlsSurveyRow{
				MarketName: market,
				Month:      month,
				Active:     ToInt(cell(row, 1)),
				ActiveDOM:  ToInt(cell(row, 2)),
				Pending:    ToInt(cell(row, 3)),
				PendingDOM: ToInt(cell(row, 4)),
				Closed:     ToInt(cell(row, 5)),
				AvgPrice:   ToInt(cell(row, 6)),
			})
		}
	}
	return rows
}
