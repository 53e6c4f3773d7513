// Package app wires configuration, the store and the processor together for
// the command-line binaries.
package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/core"
	"github.com/joseph-ayodele/ryness-reports/internal/grammar"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
	"github.com/joseph-ayodele/ryness-reports/internal/repository"
)

type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	DB        *repository.DB
	Reports   repository.ReportRepository
	Processor *core.Processor
}

// New opens the store, ensures its schema and builds a processor using the
// configured layout profile.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	profile, err := grammar.LoadProfile(cfg.Ingest.ProfilePath)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "load profile "+cfg.Ingest.ProfilePath, err)
	}

	db, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	opener := &layout.PDFOpener{MaxFileSize: cfg.Ingest.MaxFileSize, LineTolerance: profile.LineTolerance}
	reports := repository.NewReportRepository(db, logger)
	processor := core.NewProcessor(logger, opener, core.NewAssembler(profile, logger), reports)

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Reports:   reports,
		Processor: processor,
	}, nil
}

// OpenStore opens the configured database and creates any missing tables.
func OpenStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repository.DB, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		DialTimeout:     cfg.DialTimeout,
		BusyTimeout:     cfg.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, common.WrapError(err, "open store")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "ensure schema")
	}
	return db, nil
}

func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("failed to close store", "error", err)
	}
}
