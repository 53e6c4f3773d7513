package grammar

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

// CityCodesMarker introduces an inline alias list such as "City Codes: A=Foo, B=Bar".
const CityCodesMarker = "City Codes:"

var (
	reCityAlias  = regexp.MustCompile(`\b([A-Za-z]{1,4})\s*=\s*([^,]+)`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// ParseCityCodes collects every "CODE = Name" pair that follows a City Codes
// marker on the page. A list wrapped over several marker lines is read as one.
func ParseCityCodes(text string) []entity.CityCodeRow {
	var tails []string
	for _, line := range strings.Split(text, "\n") {
		_, tail, ok := strings.Cut(line, CityCodesMarker)
		if !ok {
			continue
		}
		if tail = strings.TrimSpace(tail); tail != "" {
			tails = append(tails, tail)
		}
	}
	if len(tails) == 0 {
		return nil
	}

	blob := strings.TrimSpace(reWhitespace.ReplaceAllString(strings.Join(tails, " "), " "))
	var rows []entity.CityCodeRow
	for _, m := range reCityAlias.FindAllStringSubmatch(blob, -1) {
		code := strings.ToUpper(strings.TrimSpace(m[1]))
		name := strings.TrimSpace(m[2])
		if code == "" || name == "" {
			continue
		}
		rows = append(rows, entity.CityCodeRow{CityCode: code, CityName: name})
	}
	return rows
}

// DedupCityCodes keeps the first alias seen for each code, preserving order.
func DedupCityCodes(rows []entity.CityCodeRow) []entity.CityCodeRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]entity.CityCodeRow, 0, len(rows))
	for _, r := range rows {
		if r.CityCode == "" {
			continue
		}
		if _, dup := seen[r.CityCode]; dup {
			continue
		}
		seen[r.CityCode] = struct{}{}
		out = append(out, r)
	}
	return out
}
