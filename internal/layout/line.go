package layout

import (
	"sort"
	"strings"
)

// DefaultLineTolerance is the maximum vertical drift, in layout units, between
// words that still belong to the same printed line.
const DefaultLineTolerance = 2.0

// Line is a group of words judged to sit on one printed line.
type Line struct {
	// Top of the first word that opened the group.
	Top float64
	// Words sorted left to right.
	Words []Word
}

// Text joins the words of the line with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		parts = append(parts, w.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// GroupLines clusters words into visual lines. Words are scanned by (top, x0);
// a new line starts whenever a word's top differs from the current line's top by
// more than tol. The input slice is not modified.
func GroupLines(words []Word, tol float64) []Line {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []Line
	for _, w := range sorted {
		if n := len(lines); n > 0 && abs(w.Top-lines[n-1].Top) <= tol {
			lines[n-1].Words = append(lines[n-1].Words, w)
			continue
		}
		lines = append(lines, Line{Top: w.Top, Words: []Word{w}})
	}
	for i := range lines {
		ws := lines[i].Words
		sort.SliceStable(ws, func(a, b int) bool { return ws[a].X0 < ws[b].X0 })
	}
	return lines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
