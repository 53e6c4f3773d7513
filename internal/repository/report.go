package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

// rows per multi-row INSERT, well under SQLite's bound-parameter limit
const insertChunk = 100

type ReportRepository interface {
	SaveReport(ctx context.Context, bundle *entity.ReportBundle) (int64, error)
	LatestReportID(ctx context.Context) (int64, error)
	GetReport(ctx context.Context, id int64) (*entity.Report, error)
	CountRows(ctx context.Context, reportID int64) ([]TableCount, error)
	TopCityCodes(ctx context.Context, reportID int64, limit int) ([]CityCodeCount, error)
	TableRows(ctx context.Context, table string, reportID int64) (*Rows, error)
}

type reportRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewReportRepository(db *DB, logger *slog.Logger) ReportRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

// SaveReport writes the report and all of its child rows in one transaction
// and returns the new report id. On any error, including a context that
// expires before commit, nothing is written.
func (r *reportRepository) SaveReport(ctx context.Context, bundle *entity.ReportBundle) (int64, error) {
	if bundle == nil {
		return 0, common.NewAppError(common.CodeInvalidInput, "nil report bundle", common.ErrInvalidInput)
	}
	logger := common.LoggerWith(ctx, r.logger)

	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		logger.Error("failed to begin transaction", "error", err)
		return 0, common.StoreFailed("begin transaction", err)
	}
	rollback := func(step string, cause error) (int64, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("rollback failed", "error", rbErr)
		}
		logger.Error("report not stored", "filename", bundle.Report.Filename, "step", step, "error", cause)
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%s: %w", step, ctx.Err())
		}
		return 0, common.StoreFailed(step, cause)
	}

	if bundle.Report.CreatedAt.IsZero() {
		bundle.Report.CreatedAt = time.Now().UTC()
	}
	id, err := r.insertReport(ctx, tx, &bundle.Report)
	if err != nil {
		return rollback("insert "+TableReports, err)
	}

	for _, t := range childTables {
		if err := r.insertChildren(ctx, tx, t, id, childValues(t.Name, bundle)); err != nil {
			return rollback("insert "+t.Name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return rollback("commit", err)
	}
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit report", "error", err)
		return 0, common.StoreFailed("commit", err)
	}

	bundle.Report.ID = id
	logger.Info("report stored", "report_id", id, "filename", bundle.Report.Filename, "rows", bundle.RowCount())
	return id, nil
}

func (r *reportRepository) insertReport(ctx context.Context, tx dialect.Tx, rep *entity.Report) (int64, error) {
	builder := entsql.Dialect(r.db.dialect).
		Insert(TableReports).
		Columns("ingest_id", "filename", "report_week_ending", "report_week_num", "region", "page_count", "created_at").
		Values(rep.IngestID, rep.Filename, nullable(rep.WeekEnding), nullable(rep.WeekNum), nullable(rep.Region), rep.PageCount, rep.CreatedAt)

	if r.db.dialect == dialect.Postgres {
		query, args := builder.Returning("id").Query()
		var rows entsql.Rows
		if err := tx.Query(ctx, query, args, &rows); err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, sql.ErrNoRows
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, rows.Err()
	}

	query, args := builder.Query()
	var res sql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *reportRepository) insertChildren(ctx context.Context, tx dialect.Tx, t *schema.Table, reportID int64, values [][]any) error {
	columns := append([]string{"report_id"}, dataColumns(t)...)
	conflict := conflictColumns(t)
	for start := 0; start < len(values); start += insertChunk {
		end := min(start+insertChunk, len(values))

		builder := entsql.Dialect(r.db.dialect).Insert(t.Name).Columns(columns...)
		for _, v := range values[start:end] {
			builder.Values(append([]any{reportID}, v...)...)
		}
		if len(conflict) > 0 {
			builder.OnConflict(entsql.ConflictColumns(conflict...), entsql.DoNothing())
		}
		query, args := builder.Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return err
		}
	}
	return nil
}

// childValues flattens one kind of child row into insert values, in the
// data column order declared in newTables.
func childValues(table string, b *entity.ReportBundle) [][]any {
	var out [][]any
	switch table {
	case TableCountySummary:
		for _, r := range b.CountySummary {
			out = append(out, []any{
				r.CountyGroup,
				nullable(r.Projects), nullable(r.Traffic), nullable(r.Sales), nullable(r.Cancels), nullable(r.NetSales),
				nullable(r.AvgSales), nullable(r.YTDAvg), r.YTDDiff,
				nullable(r.Prev13Avg), r.Prev13Diff,
			})
		}
	case TableWeeklyMetrics:
		for _, r := range b.WeeklyMetrics {
			out = append(out, []any{
				r.Label, nullable(r.AsOfDate), nullable(r.TrafficToSales),
				nullable(r.Projects), nullable(r.Traffic),
				nullable(r.Sales), nullable(r.Cancels), nullable(r.NetSales),
				nullable(r.AvgSales), nullable(r.YTDAvg), nullable(r.YTDDiff),
				nullable(r.Prev13Avg), nullable(r.Prev13Diff),
				nullable(r.ProjectsPct), nullable(r.TrafficPct), nullable(r.SalesPct), nullable(r.CancelsPct),
				nullable(r.NetSalesPct), nullable(r.AvgSalesPct), nullable(r.YTDAvgPct), nullable(r.Prev13AvgPct),
			})
		}
	case TableYearlyComparison:
		for _, r := range b.YearlyComparison {
			out = append(out, []any{
				r.Year,
				nullable(r.AvgWeeklyProjects), nullable(r.AvgWeeklyTraffic), nullable(r.AvgWeeklySales), nullable(r.AvgWeeklyCancels),
				nullable(r.AvgProjectSales), nullable(r.YearEndAvgProjSales),
			})
		}
	case TableProjectStats:
		for _, r := range b.ProjectStats {
			out = append(out, []any{
				nullable(r.CountyGroup), nullable(r.ProjectsParticipating),
				r.DevelopmentName, r.Developer, r.CityCode, r.Notes, r.ProductType,
				nullable(r.Units), nullable(r.NewRelease), nullable(r.ReleasedRemaining), nullable(r.Traffic),
				nullable(r.WkSales), nullable(r.WkCancels), nullable(r.SoldToDate), nullable(r.SoldYTD),
				nullable(r.AvgSalesWeek), nullable(r.AvgSalesYTD),
			})
		}
	case TableProjectTotals:
		for _, r := range b.ProjectTotals {
			out = append(out, []any{
				nullable(r.CountyGroup), nullable(r.NoReporting), nullable(r.AvgSales), nullable(r.TrafficToSales), nullable(r.NetSales),
			})
		}
	case TableCityCodes:
		for _, r := range b.CityCodes {
			out = append(out, []any{r.CityCode, r.CityName})
		}
	case TableMlsSurvey:
		for _, r := range b.MlsSurvey {
			out = append(out, []any{
				r.MarketName, r.Month,
				nullable(r.Active), nullable(r.ActiveDOM), nullable(r.Pending), nullable(r.PendingDOM),
				nullable(r.Closed), nullable(r.AvgPrice),
			})
		}
	}
	return out
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
