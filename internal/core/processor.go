package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ryness-reports/constants"
	"github.com/joseph-ayodele/ryness-reports/internal/common"
	"github.com/joseph-ayodele/ryness-reports/internal/entity"
	"github.com/joseph-ayodele/ryness-reports/internal/layout"
	"github.com/joseph-ayodele/ryness-reports/internal/repository"
)

// Result summarizes one stored document.
type Result struct {
	Path     string        `json:"path"`
	IngestID string        `json:"ingest_id"`
	ReportID int64         `json:"report_id"`
	Pages    int           `json:"pages"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// Processor coordinates layout decoding, section assembly and the store write.
type Processor struct {
	logger    *slog.Logger
	opener    layout.Opener
	assembler *Assembler
	reports   repository.ReportRepository
}

func NewProcessor(
	logger *slog.Logger,
	opener layout.Opener,
	assembler *Assembler,
	reports repository.ReportRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		opener:    opener,
		assembler: assembler,
		reports:   reports,
	}
}

// IngestFile extracts one document and stores it as a new report. A document
// that cannot be opened or decoded fails on its own; nothing is written for it.
func (p *Processor) IngestFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ingestID := uuid.NewString()
	ctx = common.WithIngestID(ctx, ingestID)
	logger := common.LoggerWith(ctx, p.logger)

	bundle, err := p.extract(ctx, path)
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		return Result{Path: path, IngestID: ingestID}, err
	}
	bundle.Report.IngestID = ingestID

	id, err := p.reports.SaveReport(ctx, bundle)
	if err != nil {
		return Result{Path: path, IngestID: ingestID}, fmt.Errorf("store %s: %w", filepath.Base(path), err)
	}

	res := Result{
		Path:     path,
		IngestID: ingestID,
		ReportID: id,
		Pages:    bundle.Report.PageCount,
		Rows:     bundle.RowCount(),
		Duration: time.Since(start),
	}
	logger.Info("document ingested",
		"path", path, "report_id", id, "pages", res.Pages, "rows", res.Rows,
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// Extract runs the parsing stages without touching the store.
func (p *Processor) Extract(ctx context.Context, path string) (*entity.ReportBundle, error) {
	return p.extract(ctx, path)
}

func (p *Processor) extract(ctx context.Context, path string) (*entity.ReportBundle, error) {
	if !constants.IsAllowedFile(path) {
		return nil, common.NewAppError(common.CodeInvalidInput, "not a pdf: "+path, common.ErrInvalidInput)
	}
	doc, err := p.opener.Open(path)
	if err != nil {
		return nil, common.Unreadable(path, err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			p.logger.Warn("failed to close document", "path", path, "error", err)
		}
	}()

	bundle, err := p.assembler.Assemble(ctx, filepath.Base(path), doc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, common.Unreadable(path, err)
	}
	return bundle, nil
}
