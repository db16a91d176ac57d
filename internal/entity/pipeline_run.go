package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RunStatus is the overall outcome of a pipeline run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun records one finished pipeline run and its per-entity report.
type PipelineRun struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Status     RunStatus      `gorm:"column:status;size:16;not null" json:"status"`
	StartedAt  time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	Report     datatypes.JSON `gorm:"column:report" json:"report"`
}

// TableName specifies the table name for the PipelineRun model.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
