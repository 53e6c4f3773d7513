package layout

import (
	"math"
	"strings"
)

// Band maps a horizontal range to a field name. A band runs from Start up to
// the Start of the next band in its table; the last band is open-ended.
type Band struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
}

// AssignBands distributes a line's words into named fields by word midpoint.
// bands must be sorted by Start ascending. Words left of the first band are
// dropped. Every band name is present in the result.
func AssignBands(bands []Band, words []Word) map[string]string {
	parts := make(map[string][]string, len(bands))
	for _, w := range words {
		idx := bandIndex(bands, w.Mid())
		if idx < 0 {
			continue
		}
		name := bands[idx].Name
		parts[name] = append(parts[name], w.Text)
	}

	out := make(map[string]string, len(bands))
	for _, b := range bands {
		out[b.Name] = strings.TrimSpace(strings.Join(parts[b.Name], " "))
	}
	return out
}

func bandIndex(bands []Band, x float64) int {
	for i, b := range bands {
		end := math.Inf(1)
		if i+1 < len(bands) {
			end = bands[i+1].Start
		}
		if b.Start <= x && x < end {
			return i
		}
	}
	return -1
}
