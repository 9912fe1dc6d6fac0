package repository

import (
	"context"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
)

// IngestionRunRepository defines the interface for batch run history.
type IngestionRunRepository interface {
	Create(ctx context.Context, run *entity.IngestionRun) error
	Update(ctx context.Context, run *entity.IngestionRun) error
	FindLatest(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

// NewIngestionRunRepository creates a new GORM-based ingestion run repository.
func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

type ingestionRunRepository struct {
	db *gorm.DB
}

// Create creates a new ingestion run record.
func (r *ingestionRunRepository) Create(ctx context.Context, run *entity.IngestionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves an existing ingestion run record.
func (r *ingestionRunRepository) Update(ctx context.Context, run *entity.IngestionRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindLatest returns the most recent runs, newest first.
func (r *ingestionRunRepository) FindLatest(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	var runs []entity.IngestionRun
	if err := r.db.WithContext(ctx).Order("started_at desc, id desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
