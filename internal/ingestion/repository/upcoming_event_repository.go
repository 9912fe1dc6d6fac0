package repository

import (
	"context"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
)

// UpcomingEventRepository defines the interface for interacting with upcoming events.
type UpcomingEventRepository interface {
	WithTx(tx *gorm.DB) UpcomingEventRepository
	CreateBatch(ctx context.Context, events []entity.UpcomingEvent) error
	FindBySecurityID(ctx context.Context, securityID uint) ([]entity.UpcomingEvent, error)
}

// NewUpcomingEventRepository creates a new instance of UpcomingEventRepository.
func NewUpcomingEventRepository(db *gorm.DB) UpcomingEventRepository {
	return &upcomingEventRepository{db: db}
}

type upcomingEventRepository struct {
	db *gorm.DB
}

func (r *upcomingEventRepository) WithTx(tx *gorm.DB) UpcomingEventRepository {
	return &upcomingEventRepository{db: tx}
}

// CreateBatch inserts every event as a new row.
func (r *upcomingEventRepository) CreateBatch(ctx context.Context, events []entity.UpcomingEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

// FindBySecurityID returns a security's events, most important first, then newest.
func (r *upcomingEventRepository) FindBySecurityID(ctx context.Context, securityID uint) ([]entity.UpcomingEvent, error) {
	var events []entity.UpcomingEvent
	err := r.db.WithContext(ctx).
		Where("security_id = ?", securityID).
		Order("CASE importance WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END, created_at desc, id desc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
