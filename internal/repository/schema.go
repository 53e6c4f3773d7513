package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	TableReports          = "reports"
	TableCountySummary    = "county_summary"
	TableWeeklyMetrics    = "weekly_metrics"
	TableYearlyComparison = "yearly_comparison"
	TableProjectStats     = "project_stats"
	TableProjectTotals    = "project_totals"
	TableCityCodes        = "city_codes"
	TableMlsSurvey        = "mls_survey"
)

// text columns are unbounded on postgres instead of varchar(255)
var textType = map[string]string{dialect.Postgres: "text"}

func textCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, SchemaType: textType, Nullable: true}
}

func intCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt64, Nullable: true}
}

func floatCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeFloat64, Nullable: true}
}

func idCol() *schema.Column {
	return &schema.Column{Name: "id", Type: field.TypeInt64, Increment: true}
}

func newReportsTable() *schema.Table {
	columns := []*schema.Column{
		idCol(),
		{Name: "ingest_id", Type: field.TypeString, SchemaType: textType},
		{Name: "filename", Type: field.TypeString, SchemaType: textType},
		textCol("report_week_ending"),
		intCol("report_week_num"),
		textCol("region"),
		{Name: "page_count", Type: field.TypeInt64, Default: 0},
		{Name: "created_at", Type: field.TypeTime, Default: schema.Expr("CURRENT_TIMESTAMP")},
	}
	return &schema.Table{
		Name:       TableReports,
		Columns:    columns,
		PrimaryKey: []*schema.Column{columns[0]},
	}
}

// newChildTable declares a per-report table: an id primary key, a report_id
// foreign key indexed and cascading from reports, then the data columns.
func newChildTable(reports *schema.Table, name string, data ...*schema.Column) *schema.Table {
	reportID := &schema.Column{Name: "report_id", Type: field.TypeInt64}
	columns := append([]*schema.Column{idCol(), reportID}, data...)
	return &schema.Table{
		Name:       name,
		Columns:    columns,
		PrimaryKey: []*schema.Column{columns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     name + "_" + TableReports + "_" + name,
			Columns:    []*schema.Column{reportID},
			RefTable:   reports,
			RefColumns: []*schema.Column{reports.PrimaryKey[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{{
			Name:    "idx_" + name + "_report_id",
			Columns: []*schema.Column{reportID},
		}},
	}
}

// newTables declares the whole store, reports first and the child tables in
// insert order. Every call returns fresh tables because migration mutates
// them.
func newTables() []*schema.Table {
	reports := newReportsTable()
	cityCodes := newChildTable(reports, TableCityCodes, textCol("city_code"), textCol("city_name"))
	cityCodes.Indexes = append(cityCodes.Indexes, &schema.Index{
		Name:    "uq_city_codes_report_id_city_code",
		Unique:  true,
		Columns: []*schema.Column{cityCodes.Columns[1], cityCodes.Columns[2]},
	})

	return []*schema.Table{
		reports,
		newChildTable(reports, TableCountySummary,
			textCol("county_group"),
			intCol("projects"), intCol("traffic"), intCol("sales"), intCol("cancels"), intCol("net_sales"),
			floatCol("avg_sales"), floatCol("ytd_avg"), textCol("ytd_diff"),
			floatCol("prev13_avg"), textCol("prev13_diff"),
		),
		newChildTable(reports, TableWeeklyMetrics,
			textCol("label"), textCol("as_of_date"), textCol("traffic_to_sales"),
			intCol("projects"), intCol("traffic"),
			floatCol("sales"), floatCol("cancels"), floatCol("net_sales"),
			floatCol("avg_sales"), floatCol("ytd_avg"), textCol("ytd_diff"),
			floatCol("prev13_avg"), textCol("prev13_diff"),
			textCol("projects_pct"), textCol("traffic_pct"), textCol("sales_pct"), textCol("cancels_pct"),
			textCol("net_sales_pct"), textCol("avg_sales_pct"), textCol("ytd_avg_pct"), textCol("prev13_avg_pct"),
		),
		newChildTable(reports, TableYearlyComparison,
			intCol("year"),
			floatCol("avg_weekly_projects"), floatCol("avg_weekly_traffic"), floatCol("avg_weekly_sales"), floatCol("avg_weekly_cancels"),
			floatCol("avg_project_sales"), floatCol("year_end_avg_proj_sales"),
		),
		newChildTable(reports, TableProjectStats,
			textCol("county_group"), intCol("projects_participating"),
			textCol("development_name"), textCol("developer"), textCol("city_code"), textCol("notes"), textCol("product_type"),
			intCol("units"), intCol("new_release"), intCol("released_remaining"), intCol("traffic"),
			intCol("wk_sales"), intCol("wk_cancels"), intCol("sold_to_date"), intCol("sold_ytd"),
			floatCol("avg_sales_week"), floatCol("avg_sales_ytd"),
		),
		newChildTable(reports, TableProjectTotals,
			textCol("county_group"), intCol("no_reporting"), floatCol("avg_sales"), textCol("traffic_to_sales"), intCol("net_sales"),
		),
		cityCodes,
		newChildTable(reports, TableMlsSurvey,
			textCol("market_name"), textCol("month"),
			intCol("active"), intCol("active_dom"), intCol("pending"), intCol("pending_dom"),
			intCol("closed"), intCol("avg_price"),
		),
	}
}

// childTables lists every per-report table in insert order. Read only.
var childTables = newTables()[1:]

// Tables returns the names of all tables, reports first.
func Tables() []string {
	names := []string{TableReports}
	for _, t := range childTables {
		names = append(names, t.Name)
	}
	return names
}

func lookupTable(name string) (*schema.Table, bool) {
	for _, t := range childTables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// dataColumns returns the columns a child row carries, skipping id and
// report_id.
func dataColumns(t *schema.Table) []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "id" || c.Name == "report_id" {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// conflictColumns returns the columns of the table's unique index, if any.
func conflictColumns(t *schema.Table) []string {
	for _, idx := range t.Indexes {
		if !idx.Unique {
			continue
		}
		names := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			names[i] = c.Name
		}
		return names
	}
	return nil
}

// EnsureSchema creates any missing tables, columns and indexes. It is safe to
// call on every start.
func (db *DB) EnsureSchema(ctx context.Context) error {
	m, err := schema.NewMigrate(db.drv)
	if err != nil {
		db.logger.Error("failed to prepare schema migration", "error", err)
		return fmt.Errorf("prepare schema: %w", err)
	}
	if err := m.Create(ctx, newTables()...); err != nil {
		db.logger.Error("failed to apply schema", "error", err)
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
