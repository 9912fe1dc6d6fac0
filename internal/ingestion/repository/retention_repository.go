package repository

import (
	"context"
	"fmt"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
)

// RetentionRepository keeps per-security collections within a rolling window.
type RetentionRepository interface {
	WithTx(tx *gorm.DB) RetentionRepository
	TrimExcess(ctx context.Context, kind entity.RetentionKind, securityID uint, keep int) (int64, error)
}

// NewRetentionRepository creates a new instance of RetentionRepository.
func NewRetentionRepository(db *gorm.DB) RetentionRepository {
	return &retentionRepository{db: db}
}

type retentionRepository struct {
	db *gorm.DB
}

func (r *retentionRepository) WithTx(tx *gorm.DB) RetentionRepository {
	return &retentionRepository{db: tx}
}

func retentionModel(kind entity.RetentionKind) (interface{}, error) {
	switch kind {
	case entity.RetentionKindNewsItem:
		return &entity.NewsItem{}, nil
	case entity.RetentionKindUpcomingEvent:
		return &entity.UpcomingEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown retention kind %q", kind)
	}
}

// TrimExcess deletes the oldest rows (by insertion time) of kind for the security until at
// most keep remain. keep <= 0 deletes all of them. It returns the number of rows deleted.
func (r *retentionRepository) TrimExcess(ctx context.Context, kind entity.RetentionKind, securityID uint, keep int) (int64, error) {
	model, err := retentionModel(kind)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(model).Where("security_id = ?", securityID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}

	excess := total - int64(keep)
	if excess <= 0 {
		return 0, nil
	}

	var ids []uint
	err = db.Model(model).
		Where("security_id = ?", securityID).
		Order("created_at asc, id asc").
		Limit(int(excess)).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("select oldest %s: %w", kind, err)
	}

	result := db.Where("id IN ?", ids).Delete(model)
	if result.Error != nil {
		return 0, fmt.Errorf("delete oldest %s: %w", kind, result.Error)
	}
	return result.RowsAffected, nil
}
