package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

// TableCount is the number of rows a table holds for one report.
type TableCount struct {
	Table string
	Rows  int64
}

// CityCodeCount is how many project rows of a report use a city code.
type CityCodeCount struct {
	CityCode string
	Projects int64
}

// Rows is a generic listing of one child table for a report.
type Rows struct {
	Table   string
	Columns []string
	Values  [][]any
}

// LatestReportID returns the highest report id, or ErrNotFound on an empty store.
func (r *reportRepository) LatestReportID(ctx context.Context) (int64, error) {
	b := entsql.Dialect(r.db.dialect)
	query, args := b.Select("id").
		From(b.Table(TableReports)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var id int64
	err := r.queryRow(ctx, query, args, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.NewAppError(common.CodeNotFound, "no reports stored", common.ErrNotFound)
	}
	return id, err
}

// GetReport loads one report row.
func (r *reportRepository) GetReport(ctx context.Context, id int64) (*entity.Report, error) {
	b := entsql.Dialect(r.db.dialect)
	query, args := b.Select("id", "ingest_id", "filename", "report_week_ending", "report_week_num", "region", "page_count", "created_at").
		From(b.Table(TableReports)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rep        entity.Report
		weekEnding sql.NullString
		weekNum    sql.NullInt64
		region     sql.NullString
		createdAt  any
	)
	err := r.queryRow(ctx, query, args, &rep.ID, &rep.IngestID, &rep.Filename, &weekEnding, &weekNum, &region, &rep.PageCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError(common.CodeNotFound, fmt.Sprintf("report %d", id), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get report", "report_id", id, "error", err)
		return nil, err
	}
	if weekEnding.Valid {
		rep.WeekEnding = &weekEnding.String
	}
	if weekNum.Valid {
		rep.WeekNum = &weekNum.Int64
	}
	if region.Valid {
		rep.Region = &region.String
	}
	rep.CreatedAt = toTime(createdAt)
	return &rep, nil
}

// CountRows returns per-table row counts for a report, reports first.
func (r *reportRepository) CountRows(ctx context.Context, reportID int64) ([]TableCount, error) {
	b := entsql.Dialect(r.db.dialect)
	counts := make([]TableCount, 0, len(childTables)+1)
	for _, name := range Tables() {
		col := "report_id"
		if name == TableReports {
			col = "id"
		}
		query, args := b.Select(entsql.Count("*")).
			From(b.Table(name)).
			Where(entsql.EQ(col, reportID)).
			Query()
		var n int64
		if err := r.queryRow(ctx, query, args, &n); err != nil {
			r.logger.Error("failed to count rows", "table", name, "report_id", reportID, "error", err)
			return nil, err
		}
		counts = append(counts, TableCount{Table: name, Rows: n})
	}
	return counts, nil
}

// TopCityCodes returns the most used project city codes of a report.
func (r *reportRepository) TopCityCodes(ctx context.Context, reportID int64, limit int) ([]CityCodeCount, error) {
	b := entsql.Dialect(r.db.dialect)
	sel := b.Select("city_code", entsql.Count("*")).
		From(b.Table(TableProjectStats)).
		Where(entsql.EQ("report_id", reportID)).
		GroupBy("city_code").
		OrderBy(entsql.Desc(entsql.Count("*")), "city_code")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("failed to query city codes", "report_id", reportID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []CityCodeCount
	for rows.Next() {
		var c CityCodeCount
		if err := rows.Scan(&c.CityCode, &c.Projects); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TableRows lists every row of one child table for a report, in insert order.
func (r *reportRepository) TableRows(ctx context.Context, table string, reportID int64) (*Rows, error) {
	t, ok := lookupTable(table)
	if !ok {
		return nil, common.NewAppError(common.CodeInvalidInput, "unknown table "+table, common.ErrInvalidInput)
	}
	b := entsql.Dialect(r.db.dialect)
	columns := dataColumns(t)
	query, args := b.Select(columns...).
		From(b.Table(t.Name)).
		Where(entsql.EQ("report_id", reportID)).
		OrderBy("id").
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("failed to list rows", "table", table, "report_id", reportID, "error", err)
		return nil, err
	}
	defer rows.Close()

	out := &Rows{Table: t.Name, Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if raw, ok := v.([]byte); ok {
				vals[i] = string(raw)
			}
		}
		out.Values = append(out.Values, vals)
	}
	return out, rows.Err()
}

// queryRow scans exactly the first row of a query into dest.
func (r *reportRepository) queryRow(ctx context.Context, query string, args []any, dest ...any) error {
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// toTime accepts the driver's native time or one of SQLite's text forms.
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return toTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
