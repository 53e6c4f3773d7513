package layout

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/font"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"
)

// MaxFileSize - 50MB hard limit for report documents
const MaxFileSize = 50 * 1024 * 1024

// default page height in points (US Letter) when no MediaBox can be found
const defaultPageTop = 792.0

// PDFOpener opens report PDFs with the pure-Go tabula reader.
type PDFOpener struct {
	MaxFileSize   int64
	LineTolerance float64
}

// NewPDFOpener returns an opener with default limits.
func NewPDFOpener() *PDFOpener {
	return &PDFOpener{MaxFileSize: MaxFileSize, LineTolerance: DefaultLineTolerance}
}

// Open checks the file and prepares it for page-by-page decoding.
func (o *PDFOpener) Open(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %w", err)
	}
	limit := o.MaxFileSize
	if limit <= 0 {
		limit = MaxFileSize
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("file exceeds size limit of %d bytes", limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	r, count, err := newReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	tol := o.LineTolerance
	if tol <= 0 {
		tol = DefaultLineTolerance
	}
	return &pdfDocument{reader: r, pages: count, lineTol: tol}, nil
}

// newReader guards against the reader panicking on a damaged xref table.
func newReader(f *os.File) (r *reader.Reader, count int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, count, err = nil, 0, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	r, err = reader.NewReader(f)
	if err != nil {
		return nil, 0, err
	}
	count, err = r.PageCount()
	if err != nil {
		return nil, 0, fmt.Errorf("read page tree: %w", err)
	}
	return r, count, nil
}

type pdfDocument struct {
	reader  *reader.Reader
	pages   int
	lineTol float64
}

func (d *pdfDocument) NumPages() int {
	return d.pages
}

func (d *pdfDocument) Close() error {
	return d.reader.Close()
}

// Page decodes one page. Decoding panics in the reader surface as errors.
func (d *pdfDocument) Page(ctx context.Context, num int) (page *Page, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if num < 1 || num > d.pages {
		return nil, ErrPageOutOfRange
	}
	defer func() {
		if rec := recover(); rec != nil {
			page = nil
			err = fmt.Errorf("decode page %d: %v", num, rec)
		}
	}()

	p, err := d.reader.GetPage(num - 1)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", num, err)
	}
	data, err := contentBytes(p)
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", num, err)
	}
	if len(data) == 0 {
		return &Page{Number: num}, nil
	}
	top := pageTop(p)

	te := text.NewExtractor()
	resolve := func(ref core.IndirectRef) (core.Object, error) {
		return d.reader.ResolveReference(ref)
	}
	// Pages with unresolvable fonts still decode with estimated widths.
	_ = te.RegisterFontsFromPage(p, resolve)
	fragments, err := te.ExtractFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("extract text on page %d: %w", num, err)
	}

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		return nil, fmt.Errorf("extract graphics on page %d: %w", num, err)
	}
	grid := ge.GetGridLines()
	rules := append(append(grid.Horizontals, grid.Verticals...), RulesFromRectangles(ge.GetRectangles())...)

	words := BuildWords(toGlyphs(fragments, te.GetFonts(), top))
	lines := GroupLines(words, d.lineTol)
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text())
	}

	return &Page{
		Number: num,
		Text:   strings.Join(texts, "\n"),
		Words:  words,
		Tables: DetectTables(rules, top, words),
	}, nil
}

// contentBytes concatenates the decoded content streams of a page.
func contentBytes(p *pages.Page) ([]byte, error) {
	contents, err := p.Contents()
	if err != nil {
		return nil, err
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		b, err := stream.Decode()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
		data = append(data, '\n')
	}
	return data, nil
}

// pageTop returns the upper edge of the MediaBox. The box is inheritable and
// the reader resolves it through the page tree.
func pageTop(p *pages.Page) float64 {
	box, err := p.MediaBox()
	if err != nil || len(box) != 4 {
		return defaultPageTop
	}
	return box[3]
}

func toGlyphs(fragments []text.TextFragment, fonts map[string]*font.Font, top float64) []Glyph {
	out := make([]Glyph, 0, len(fragments))
	for _, frag := range fragments {
		g := Glyph{
			Text:     NormalizeGlyphs(frag.Text),
			X:        frag.X,
			Width:    frag.Width,
			Top:      top - frag.Y - frag.FontSize,
			FontSize: frag.FontSize,
		}
		if f, ok := fonts[frag.FontName]; ok {
			g.Advances = advances(f, g.Text, frag.FontSize)
		}
		out = append(out, g)
	}
	return out
}

func advances(f *font.Font, s string, size float64) []float64 {
	out := make([]float64, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, f.GetWidth(r)*size/1000.0)
	}
	return out
}

// Glyph is one positioned text run as emitted by the content stream.
// Advances, when set, holds the width of each rune of Text.
type Glyph struct {
	Text     string
	X        float64
	Width    float64
	Top      float64
	FontSize float64
	Advances []float64
}

// BuildWords merges glyph runs into words. Runs sharing a baseline are joined
// until a space or a horizontal gap wider than a quarter of the font size.
func BuildWords(glyphs []Glyph) []Word {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]Glyph
	for _, g := range sorted {
		if n := len(rows); n > 0 && abs(g.Top-rows[n-1][0].Top) <= 1 {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []Glyph{g})
	}

	var words []Word
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		words = append(words, mergeRow(row)...)
	}
	return words
}

func mergeRow(row []Glyph) []Word {
	var words []Word
	var cur *Word
	var lastEnd, lastSize float64
	flush := func() {
		if cur != nil && cur.Text != "" {
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, g := range row {
		if cur != nil && g.X-lastEnd > 0.25*maxFloat(lastSize, g.FontSize) {
			flush()
		}
		adv := runeAdvances(g)
		x := g.X
		i := 0
		for _, r := range g.Text {
			w := adv[i]
			i++
			if r == ' ' {
				flush()
				x += w
				continue
			}
			if cur == nil {
				cur = &Word{X0: x, Top: g.Top}
			}
			cur.Text += string(r)
			x += w
			cur.X1 = x
		}
		lastEnd, lastSize = g.X+g.Width, g.FontSize
	}
	flush()
	return words
}

// runeAdvances returns one width per rune, spreading Width evenly when the
// font metrics are unknown.
func runeAdvances(g Glyph) []float64 {
	n := utf8.RuneCountInString(g.Text)
	if len(g.Advances) == n {
		return g.Advances
	}
	out := make([]float64, n)
	if n > 0 {
		for i := range out {
			out[i] = g.Width / float64(n)
		}
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
