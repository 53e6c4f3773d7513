package layout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// writeSinglePagePDF writes a one-page US Letter PDF whose page draws content
// with Helvetica bound to /F1, and returns its path.
func writeSinglePagePDF(t *testing.T, content string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// two rows by two columns: rules at y 700/680/660 and x 72/172/272
const (
	strokedGrid = `0.5 w
72 700 m 272 700 l S
72 680 m 272 680 l S
72 660 m 272 660 l S
72 660 m 72 700 l S
172 660 m 172 700 l S
272 660 m 272 700 l S
`
	rectGrid = `0.5 w
72 660 200 40 re S
72 679.75 200 0.5 re f
171.75 660 0.5 40 re f
`
	gridCells = `BT /F1 10 Tf 80 686 Td (Jan-24) Tj ET
BT /F1 10 Tf 180 686 Td (120) Tj ET
BT /F1 10 Tf 80 666 Td (Feb-24) Tj ET
BT /F1 10 Tf 180 666 Td (130) Tj ET
`
	pageTitle = "BT /F1 10 Tf 72 740 Td (Weekly Market Report) Tj ET\n"
)

func TestPDFDocument_Page(t *testing.T) {
	tests := []struct {
		name    string
		content string
		shift   float64
	}{
		{name: "stroked lines", content: pageTitle + strokedGrid + gridCells},
		{name: "rectangles", content: pageTitle + rectGrid + gridCells},
		{
			name:    "translated grid",
			content: pageTitle + "q 1 0 0 1 0 -100 cm\n" + strokedGrid + gridCells + "Q\n",
			shift:   100,
		},
		{
			name:    "translated rectangles",
			content: pageTitle + "q 1 0 0 1 0 -100 cm\n" + rectGrid + gridCells + "Q\n",
			shift:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewPDFOpener().Open(writeSinglePagePDF(t, tt.content))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer doc.Close()

			if doc.NumPages() != 1 {
				t.Fatalf("pages: got %d, want 1", doc.NumPages())
			}
			page, err := doc.Page(context.Background(), 1)
			if err != nil {
				t.Fatalf("page: %v", err)
			}

			wantWords := []Word{
				{Text: "Weekly", X0: 72, Top: 42},
				{Text: "Market", Top: 42},
				{Text: "Report", Top: 42},
				{Text: "Jan-24", X0: 80, Top: 96 + tt.shift},
				{Text: "120", X0: 180, Top: 96 + tt.shift},
				{Text: "Feb-24", X0: 80, Top: 116 + tt.shift},
				{Text: "130", X0: 180, Top: 116 + tt.shift},
			}
			opts := cmp.Options{
				cmpopts.IgnoreFields(Word{}, "X1"),
				cmpopts.EquateApprox(0, 0.01),
			}
			got := append([]Word(nil), page.Words...)
			// title word positions past the first depend on font metrics
			for i := range got {
				if i > 0 && i < 3 {
					got[i].X0 = 0
				}
			}
			if diff := cmp.Diff(wantWords, got, opts); diff != "" {
				t.Errorf("words mismatch (-want +got):\n%s", diff)
			}
			for _, w := range page.Words {
				if w.X1 <= w.X0 {
					t.Errorf("word %q has non-positive width", w.Text)
				}
			}

			wantText := "Weekly Market Report\nJan-24 120\nFeb-24 130"
			if page.Text != wantText {
				t.Errorf("text: got %q, want %q", page.Text, wantText)
			}

			wantTables := []Table{{{"Jan-24", "120"}, {"Feb-24", "130"}}}
			if diff := cmp.Diff(wantTables, page.Tables); diff != "" {
				t.Errorf("tables mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPDFDocument_PageOutOfRange(t *testing.T) {
	doc, err := NewPDFOpener().Open(writeSinglePagePDF(t, pageTitle))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer doc.Close()

	page, err := doc.Page(context.Background(), 1)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Text != "Weekly Market Report" || len(page.Tables) != 0 {
		t.Errorf("unexpected page: %+v", page)
	}
	if _, err := doc.Page(context.Background(), 2); err != ErrPageOutOfRange {
		t.Errorf("page 2: got %v, want ErrPageOutOfRange", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := doc.Page(ctx, 1); err != context.Canceled {
		t.Errorf("canceled: got %v, want context.Canceled", err)
	}
}
