package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/repository"
)

// ReportSheet is the first sheet of every workbook: the report row itself.
const ReportSheet = "Report"

// Service turns stored reports into XLSX workbooks, one sheet per table.
type Service struct {
	reports repository.ReportRepository
	logger  *slog.Logger
}

func NewService(reports repository.ReportRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reports: reports, logger: logger}
}

// ExportReportXLSX returns a workbook for reportID. A reportID of 0 exports
// the most recently stored report.
func (s *Service) ExportReportXLSX(ctx context.Context, reportID int64) ([]byte, error) {
	start := time.Now()

	if reportID < 0 {
		return nil, common.InvalidArgumentErrorf("report id must not be negative, got %d", reportID)
	}
	if reportID == 0 {
		id, err := s.reports.LatestReportID(ctx)
		if err != nil {
			return nil, err
		}
		reportID = id
	}
	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	str := func(p *string) any {
		if p == nil {
			return ""
		}
		return *p
	}
	var weekNum any = ""
	if rep.WeekNum != nil {
		weekNum = *rep.WeekNum
	}
	fields := [][2]any{
		{"id", rep.ID},
		{"ingest_id", rep.IngestID},
		{"filename", rep.Filename},
		{"report_week_ending", str(rep.WeekEnding)},
		{"report_week_num", weekNum},
		{"region", str(rep.Region)},
		{"page_count", rep.PageCount},
		{"created_at", rep.CreatedAt.UTC().Format(time.RFC3339)},
	}
	for i, kv := range fields {
		if err := f.SetSheetRow(ReportSheet, cell(1, i+1), &[]any{kv[0], kv[1]}); err != nil {
			return nil, fmt.Errorf("write report sheet: %w", err)
		}
	}
	_ = f.SetColWidth(ReportSheet, "A", "A", 20)
	_ = f.SetColWidth(ReportSheet, "B", "B", 40)

	total := 0
	for _, table := range repository.Tables() {
		if table == repository.TableReports {
			continue
		}
		rows, err := s.reports.TableRows(ctx, table, reportID)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		if err := writeTable(f, rows); err != nil {
			return nil, err
		}
		total += len(rows.Values)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("exported report",
		"report_id", reportID,
		"rows", total,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// writeTable adds one sheet named after the table with a bold, frozen header.
func writeTable(f *excelize.File, rows *repository.Rows) error {
	sheet := rows.Table
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	header := make([]any, len(rows.Columns))
	for i, c := range rows.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last := cell(len(rows.Columns), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, vals := range rows.Values {
		row := make([]any, len(vals))
		for j, v := range vals {
			if v == nil {
				row[j] = ""
				continue
			}
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// IsNotFound reports whether an export failed because the report does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
