package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
)

// Rectangles thinner than this are drawn rules rather than boxes (in points).
const maxRuleThickness = 2.0

// Rules closer than this are treated as touching (in points).
const touchTolerance = 3.0

// RulesFromRectangles turns rectangle paths into ruling lines. A thin
// rectangle becomes one rule along its long axis and any other rectangle
// contributes its four edges. Coordinates stay in PDF space.
func RulesFromRectangles(rects []graphicsstate.ExtractedRectangle) []graphicsstate.ExtractedLine {
	var out []graphicsstate.ExtractedLine
	for _, r := range rects {
		b := r.BBox
		x0, x1 := b.X, b.X+b.Width
		y0, y1 := b.Y, b.Y+b.Height
		switch {
		case b.Height <= maxRuleThickness && b.Width > maxRuleThickness:
			mid := y0 + b.Height/2
			out = append(out, hline(x0, x1, mid, b.Height))
		case b.Width <= maxRuleThickness && b.Height > maxRuleThickness:
			mid := x0 + b.Width/2
			out = append(out, vline(mid, y0, y1, b.Width))
		case b.Width > maxRuleThickness && b.Height > maxRuleThickness:
			out = append(out,
				hline(x0, x1, y0, r.StrokeWidth),
				hline(x0, x1, y1, r.StrokeWidth),
				vline(x0, y0, y1, r.StrokeWidth),
				vline(x1, y0, y1, r.StrokeWidth),
			)
		}
	}
	return out
}

func hline(x0, x1, y, width float64) graphicsstate.ExtractedLine {
	return graphicsstate.ExtractedLine{
		Start:        model.Point{X: x0, Y: y},
		End:          model.Point{X: x1, Y: y},
		Width:        width,
		IsHorizontal: true,
		BBox:         model.BBox{X: x0, Y: y, Width: x1 - x0},
	}
}

func vline(x, y0, y1, width float64) graphicsstate.ExtractedLine {
	return graphicsstate.ExtractedLine{
		Start:      model.Point{X: x, Y: y0},
		End:        model.Point{X: x, Y: y1},
		Width:      width,
		IsVertical: true,
		BBox:       model.BBox{X: x, Y: y0, Height: y1 - y0},
	}
}

// DetectTables finds ruled tables among the page rules and fills each cell
// with the words whose anchor point falls inside it. Rules are in PDF space,
// top is the upper edge of the page, and words are in top-down coordinates.
// Tables come back ordered top to bottom, then left to right.
func DetectTables(rules []graphicsstate.ExtractedLine, top float64, words []Word) []Table {
	detector := tables.NewGridDetector()

	type placed struct {
		top, left float64
		table     Table
	}
	var found []placed
	for _, group := range connectedRules(rules) {
		var hs, vs []graphicsstate.ExtractedLine
		for _, l := range group {
			if l.IsHorizontal {
				hs = append(hs, l)
			} else {
				vs = append(vs, l)
			}
		}
		for _, g := range detector.DetectFromLines(hs, vs) {
			rows := make([]float64, len(g.HorizontalLines))
			for i, y := range g.HorizontalLines {
				rows[i] = top - y
			}
			cols := append([]float64(nil), g.VerticalLines...)
			found = append(found, placed{
				top:   rows[0],
				left:  cols[0],
				table: fillCells(rows, cols, words),
			})
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].top != found[j].top {
			return found[i].top < found[j].top
		}
		return found[i].left < found[j].left
	})

	out := make([]Table, 0, len(found))
	for _, f := range found {
		out = append(out, f.table)
	}
	return out
}

// connectedRules splits axis-aligned rules into groups of rules that cross or
// touch one another, one group per drawn grid. Diagonal rules are dropped.
func connectedRules(rules []graphicsstate.ExtractedLine) [][]graphicsstate.ExtractedLine {
	var axis []graphicsstate.ExtractedLine
	for _, l := range rules {
		if l.IsHorizontal || l.IsVertical {
			axis = append(axis, l)
		}
	}

	parent := make([]int, len(axis))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range axis {
		for j := i + 1; j < len(axis); j++ {
			if touches(axis[i], axis[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	index := map[int]int{}
	var groups [][]graphicsstate.ExtractedLine
	for i, l := range axis {
		root := find(i)
		n, ok := index[root]
		if !ok {
			n = len(groups)
			index[root] = n
			groups = append(groups, nil)
		}
		groups[n] = append(groups[n], l)
	}
	return groups
}

// touches reports whether the bounding boxes of two rules meet within
// touchTolerance.
func touches(a, b graphicsstate.ExtractedLine) bool {
	ax0, ax1 := math.Min(a.Start.X, a.End.X), math.Max(a.Start.X, a.End.X)
	ay0, ay1 := math.Min(a.Start.Y, a.End.Y), math.Max(a.Start.Y, a.End.Y)
	bx0, bx1 := math.Min(b.Start.X, b.End.X), math.Max(b.Start.X, b.End.X)
	by0, by1 := math.Min(b.Start.Y, b.End.Y), math.Max(b.Start.Y, b.End.Y)
	return ax0 <= bx1+touchTolerance && bx0 <= ax1+touchTolerance &&
		ay0 <= by1+touchTolerance && by0 <= ay1+touchTolerance
}

// cell text anchor: a little below the word's top edge
const anchorDrop = 2.0

func fillCells(rows, cols []float64, words []Word) Table {
	cells := make([][][]Word, len(rows)-1)
	for r := range cells {
		cells[r] = make([][]Word, len(cols)-1)
	}
	for _, w := range words {
		r := span(rows, w.Top+anchorDrop)
		c := span(cols, w.Mid())
		if r < 0 || c < 0 {
			continue
		}
		cells[r][c] = append(cells[r][c], w)
	}

	table := make(Table, len(cells))
	for r, row := range cells {
		table[r] = make([]string, len(row))
		for c, ws := range row {
			lines := GroupLines(ws, DefaultLineTolerance)
			parts := make([]string, 0, len(lines))
			for _, l := range lines {
				parts = append(parts, l.Text())
			}
			table[r][c] = strings.Join(parts, "\n")
		}
	}
	return table
}

// span returns i such that edges[i] <= v < edges[i+1], or -1.
func span(edges []float64, v float64) int {
	for i := 0; i+1 < len(edges); i++ {
		if edges[i] <= v && v < edges[i+1] {
			return i
		}
	}
	return -1
}
