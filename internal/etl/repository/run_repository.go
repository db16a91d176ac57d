package repository

import (
	"context"

	"golang-market-etl/internal/entity"

	"gorm.io/gorm"
)

// RunRepository defines the interface for pipeline run history.
type RunRepository interface {
	Create(ctx context.Context, run *entity.PipelineRun) error
}

// NewRunRepository creates a new GORM-based run repository.
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

type runRepository struct {
	db *gorm.DB
}

// Create stores a finished run.
func (r *runRepository) Create(ctx context.Context, run *entity.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}
