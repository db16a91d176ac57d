package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang-market-etl/internal/entity"
	"golang-market-etl/internal/etl/repository"
)

// RunHistoryRecorder persists every run report.
type RunHistoryRecorder struct {
	repo repository.RunRepository
}

// NewRunHistoryRecorder creates a RunHistoryRecorder.
func NewRunHistoryRecorder(repo repository.RunRepository) *RunHistoryRecorder {
	return &RunHistoryRecorder{repo: repo}
}

// NotifyRun stores report as a pipeline_runs row.
func (r *RunHistoryRecorder) NotifyRun(ctx context.Context, report *RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	status := entity.RunStatusSucceeded
	if report.Failed() {
		status = entity.RunStatusFailed
	}
	return r.repo.Create(ctx, &entity.PipelineRun{
		Status:     status,
		StartedAt:  report.StartedAt.UTC(),
		FinishedAt: report.FinishedAt.UTC(),
		Report:     payload,
	})
}

// Notifiers fans a report out to every notifier and joins their errors.
type Notifiers []Notifier

// NotifyRun calls every notifier, even after one fails.
func (ns Notifiers) NotifyRun(ctx context.Context, report *RunReport) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyRun(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
