package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/internal/etl/repository"
	"golang-market-etl/internal/etl/source"
	"golang-market-etl/internal/etl/transform"
	"golang-market-etl/pkg/common"
	"golang-market-etl/pkg/logger"
	"golang-market-etl/pkg/utils"
)

// Entities is the fixed processing order of a run.
var Entities = []string{
	common.EntityCompanies,
	common.EntityStockPrices,
	common.EntityFinancialStatements,
}

// Notifier receives the report of every finished run.
type Notifier interface {
	NotifyRun(ctx context.Context, report *RunReport) error
}

// PipelineService defines the interface for one ETL run.
type PipelineService interface {
	Run(ctx context.Context) *RunReport
}

// NewPipelineService creates a new pipeline service. notifier may be nil.
func NewPipelineService(src source.Source, normalizer *transform.Normalizer, ratios *transform.RatioEngine, loader repository.Loader, notifier Notifier, logger *logger.Logger) PipelineService {
	return &pipelineService{
		source:     src,
		normalizer: normalizer,
		ratios:     ratios,
		loader:     loader,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

type pipelineService struct {
	source     source.Source
	normalizer *transform.Normalizer
	ratios     *transform.RatioEngine
	loader     repository.Loader
	notifier   Notifier
	logger     *logger.Logger
	now        func() time.Time
}

// Run processes every entity in order. A failure is recorded on its entity
// and never stops the entities after it.
func (s *pipelineService) Run(ctx context.Context) *RunReport {
	report := &RunReport{StartedAt: s.now()}
	s.logger.InfoContext(ctx, "Pipeline run started")

	for _, name := range Entities {
		report.Results = append(report.Results, s.runEntity(ctx, name))
	}

	report.FinishedAt = s.now()
	s.logger.InfoContext(ctx, "Pipeline run finished",
		logger.Field("failed", report.Failed()),
		logger.Field("duration", report.Duration()))

	if s.notifier != nil {
		if err := s.notifier.NotifyRun(ctx, report); err != nil {
			s.logger.WarnContext(ctx, "Failed to send run report", logger.ErrorField(err))
		}
	}
	return report
}

func (s *pipelineService) runEntity(ctx context.Context, name string) EntityResult {
	start := s.now()
	result := EntityResult{Entity: name, Status: StatusLoaded}
	log := s.logger.With(logger.StringField("entity", name))

	err := utils.SafeCall(func() error {
		return s.process(ctx, name, &result)
	})
	result.Duration = s.now().Sub(start)

	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		result.Status = StatusSkipped
		log.WarnContext(ctx, "Raw source not found, skipping entity", logger.ErrorField(err))
	case err != nil:
		result.Status = StatusFailed
		result.Error = err.Error()
		log.ErrorContext(ctx, "Entity failed", logger.ErrorField(err))
	}

	log.InfoContext(ctx, "Entity summary",
		logger.StringField("status", string(result.Status)),
		logger.IntField("rows_read", result.RowsRead),
		logger.IntField("rows_dropped", result.RowsDropped),
		logger.IntField("rows_loaded", result.RowsLoaded),
		logger.Field("rows_affected", result.RowsAffected))
	return result
}

func (s *pipelineService) process(ctx context.Context, name string, result *EntityResult) error {
	raw, err := s.source.Read(ctx, name)
	if err != nil {
		return err
	}
	result.RowsRead = raw.Len()

	normalized, stats, err := s.normalize(name, raw)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", name, err)
	}
	result.RowsDropped = stats.Input - stats.Output

	if name == common.EntityFinancialStatements {
		result.OmittedRatios = s.ratios.Apply(normalized)
		normalized = transform.ProjectFinancials(normalized)
	}
	transform.Sanitize(normalized)

	target, err := repository.TargetFor(name)
	if err != nil {
		return err
	}
	loaded, err := s.loader.Load(ctx, target, normalized)
	result.RowsLoaded = loaded.Committed
	result.RowsAffected = loaded.Affected
	return err
}

func (s *pipelineService) normalize(name string, raw *frame.Frame) (*frame.Frame, transform.NormalizeStats, error) {
	switch name {
	case common.EntityCompanies:
		return s.normalizer.Companies(raw)
	case common.EntityStockPrices:
		return s.normalizer.Prices(raw)
	case common.EntityFinancialStatements:
		return s.normalizer.Financials(raw)
	default:
		return nil, transform.NormalizeStats{}, fmt.Errorf("unknown entity %q", name)
	}
}
