package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/app"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	repo "github.com/joseph-ayodele/ryness-reports/internal/repository"
)

func main() {
	cfg := common.LoadConfig()
	dsn := flag.String("db", cfg.Database.DSN, "SQLite file or postgres:// URL")
	top := flag.Int("top", 10, "number of project city codes to list")
	flag.Parse()
	cfg.Database.DSN = *dsn

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := common.NewLogger(os.Stderr, cfg.LogLevel)
	db, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		log.Printf("opening DB: %v", err)
		os.Exit(constants.ExitFailures)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: closing DB: %v", err)
		}
	}()

	if err := db.HealthCheck(ctx, 1*time.Second); err != nil {
		log.Printf("DB health: FAIL (%v)", err)
		os.Exit(constants.ExitFailures)
	}
	log.Printf("DB health: OK (%s)", db.Dialect())

	reports := repo.NewReportRepository(db, logger)
	id, err := reports.LatestReportID(ctx)
	if errors.Is(err, common.ErrNotFound) {
		log.Println("no reports stored")
		return
	}
	if err != nil {
		log.Printf("latest report: %v", err)
		os.Exit(constants.ExitFailures)
	}
	rep, err := reports.GetReport(ctx, id)
	if err != nil {
		log.Printf("loading report %d: %v", id, err)
		os.Exit(constants.ExitFailures)
	}
	log.Printf("latest report: %d (%s, %d pages)", rep.ID, rep.Filename, rep.PageCount)

	counts, err := reports.CountRows(ctx, id)
	if err != nil {
		log.Printf("counting rows: %v", err)
		os.Exit(constants.ExitFailures)
	}
	for _, c := range counts {
		log.Printf("- %-18s %d", c.Table, c.Rows)
	}

	codes, err := reports.TopCityCodes(ctx, id, *top)
	if err != nil {
		log.Printf("city codes: %v", err)
		os.Exit(constants.ExitFailures)
	}
	log.Printf("top city codes: %d", len(codes))
	for _, c := range codes {
		log.Printf("- %-6s %d", c.CityCode, c.Projects)
	}
}
