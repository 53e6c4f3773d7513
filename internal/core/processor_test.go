package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/grammar"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
	"github.com/joseph-ayodele/ryness-reports/internal/repository"
)

type fakeOpener struct {
	docs map[string]layout.Document
}

func (f fakeOpener) Open(path string) (layout.Document, error) {
	doc, ok := f.docs[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return doc, nil
}

type brokenDocument struct{}

func (brokenDocument) NumPages() int { return 2 }
func (brokenDocument) Close() error { return nil }
func (brokenDocument) Page(_ context.Context, num int) (*layout.Page, error) {
	if num == 2 {
		return nil, errors.New("decode page 2: bad xref")
	}
	return &layout.Page{Number: num, Text: "Week 1 Ending: Jan 5"}, nil
}

func w(text string, x0, x1, top float64) layout.Word {
	return layout.Word{Text: text, X0: x0, X1: x1, Top: top}
}

func twoPageReport() *layout.StaticDocument {
	first := &layout.Page{
		Number: 1,
		Text: "Bay Area\n" +
			"Week 12 Ending: March 23, 2025\n" +
			"Alameda 12 450 102 5 97 8.50 7.90 +3% 7.50 +5%\n" +
			"Marin 3 40 2 0 2 0.67 0.80 -4 0.70 -1%\n" +
			"Per Project Average 25 1.03 0.08 0.95\n" +
			"City Codes: OAK=Oakland",
		Tables: []layout.Table{
			{{"County", "Projects"}},
			{
				{"Year", "", "", "", "", "", "Avg", "End"},
				{"2024 78.5 1900 80.2 5.1", "", "", "", "", "", "1.02", "0.98"},
			},
		},
	}
	second := &layout.Page{
		Number: 2,
		Text: "Alameda County | Week 12\n" +
			"Projects Participating: 14\n" +
			grammar.ProjectTableHeader + "\n" +
			"Harbor Point Lennar OAK2 SFD 120\n" +
			"TOTALS: No. Reporting: 1 Avg. Sales: 3.00\n" +
			"City Codes: OAK=Oakland Hills, BK=Berkeley",
		Words: []layout.Word{
			w("Development", 22, 70, 80),
			w("Harbor", 22, 50, 110), w("Point", 52, 70, 110),
			w("Lennar", 152, 180, 110),
			w("OAK2", 232, 250, 110),
			w("SFD", 332, 350, 110),
			w("120", 372, 385, 110),
			w("TOTALS:", 22, 50, 130), w("No.", 52, 60, 130), w("Reporting:", 62, 90, 130), w("1", 92, 95, 130),
			w("Avg.", 97, 110, 130), w("Sales:", 112, 130, 130), w("3.00", 132, 145, 130),
		},
	}
	return &layout.StaticDocument{Pages: []*layout.Page{first, second}}
}

func TestAssemble_TwoPages(t *testing.T) {
	a := NewAssembler(grammar.DefaultProfile(), nil)
	b, err := a.Assemble(context.Background(), "week12.pdf", twoPageReport())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if b.Report.Filename != "week12.pdf" || b.Report.PageCount != 2 {
		t.Errorf("report: %+v", b.Report)
	}
	if b.Report.WeekNum == nil || *b.Report.WeekNum != 12 || b.Report.Region == nil || *b.Report.Region != "Bay Area" {
		t.Errorf("header not parsed: %+v", b.Report)
	}

	got := map[string]int{
		"county":   len(b.CountySummary),
		"weekly":   len(b.WeeklyMetrics),
		"yearly":   len(b.YearlyComparison),
		"projects": len(b.ProjectStats),
		"totals":   len(b.ProjectTotals),
		"mls":      len(b.MlsSurvey),
	}
	want := map[string]int{"county": 1, "weekly": 1, "yearly": 1, "projects": 1, "totals": 1, "mls": 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("section counts (-want +got):\n%s", diff)
	}

	wantCodes := []entity.CityCodeRow{
		{CityCode: "OAK", CityName: "Oakland"},
		{CityCode: "BK", CityName: "Berkeley"},
	}
	if diff := cmp.Diff(wantCodes, b.CityCodes); diff != "" {
		t.Errorf("city codes (-want +got):\n%s", diff)
	}
	if b.ProjectStats[0].CityCode != "OAK" || b.ProjectTotals[0].NetSales != nil {
		t.Errorf("project rows: %+v / %+v", b.ProjectStats[0], b.ProjectTotals[0])
	}
}

func TestAssemble_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssembler(grammar.DefaultProfile(), nil).Assemble(ctx, "x.pdf", twoPageReport())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func newTestProcessor(t *testing.T, docs map[string]layout.Document) (*Processor, repository.ReportRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: filepath.Join(t.TempDir(), "ryness.db")}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	repo := repository.NewReportRepository(db, nil)
	proc := NewProcessor(nil, fakeOpener{docs: docs}, NewAssembler(grammar.DefaultProfile(), nil), repo)
	return proc, repo
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()
	proc, repo := newTestProcessor(t, map[string]layout.Document{
		"in/week12.pdf": twoPageReport(),
	})

	first, err := proc.IngestFile(ctx, "in/week12.pdf")
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if first.ReportID == 0 || first.IngestID == "" || first.Pages != 2 {
		t.Fatalf("unexpected result: %+v", first)
	}
	// county 1, weekly 1, yearly 1, projects 1, totals 1, city codes 2
	if first.Rows != 7 {
		t.Errorf("rows: got %d, want 7", first.Rows)
	}

	rep, err := repo.GetReport(ctx, first.ReportID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if rep.Filename != "week12.pdf" || rep.IngestID != first.IngestID {
		t.Errorf("stored report: %+v", rep)
	}

	second, err := proc.IngestFile(ctx, "in/week12.pdf")
	if err != nil {
		t.Fatalf("second IngestFile: %v", err)
	}
	if second.ReportID == first.ReportID || second.IngestID == first.IngestID {
		t.Fatalf("re-ingest must create a new report: %+v vs %+v", first, second)
	}
	counts, err := repo.CountRows(ctx, second.ReportID)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range counts {
		if c.Table == repository.TableCityCodes && c.Rows != 2 {
			t.Errorf("second report city codes: got %d, want 2", c.Rows)
		}
	}
}

func TestIngestFile_Failures(t *testing.T) {
	ctx := context.Background()
	proc, repo := newTestProcessor(t, map[string]layout.Document{
		"broken.pdf": brokenDocument{},
		"notes.txt":  twoPageReport(),
	})

	tests := []struct {
		path string
		code string
	}{
		{"broken.pdf", common.CodeDocumentUnreadable},
		{"missing.pdf", common.CodeDocumentUnreadable},
		{"notes.txt", common.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := proc.IngestFile(ctx, tt.path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := common.Code(err); got != tt.code {
				t.Errorf("code: got %q, want %q (%v)", got, tt.code, err)
			}
		})
	}

	if _, err := repo.LatestReportID(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("failed documents must not be stored: %v", err)
	}
}

func TestExtract_DoesNotStore(t *testing.T) {
	ctx := context.Background()
	proc, repo := newTestProcessor(t, map[string]layout.Document{"a.pdf": twoPageReport()})

	b, err := proc.Extract(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if b.RowCount() == 0 {
		t.Error("expected extracted rows")
	}
	if _, err := repo.LatestReportID(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Extract wrote to the store: %v", err)
	}
}
