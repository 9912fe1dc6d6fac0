package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNewsSummaryNotFound is returned when a security has no news summary yet.
var ErrNewsSummaryNotFound = errors.New("news summary not found")

// NewsSummaryRepository defines the interface for interacting with security news summaries.
type NewsSummaryRepository interface {
	WithTx(tx *gorm.DB) NewsSummaryRepository
	Upsert(ctx context.Context, summary *entity.SecurityNewsSummary) (bool, error)
	FindBySecurityID(ctx context.Context, securityID uint) (*entity.SecurityNewsSummary, error)
}

// NewNewsSummaryRepository creates a new instance of NewsSummaryRepository.
func NewNewsSummaryRepository(db *gorm.DB) NewsSummaryRepository {
	return &newsSummaryRepository{db: db}
}

type newsSummaryRepository struct {
	db *gorm.DB
}

func (r *newsSummaryRepository) WithTx(tx *gorm.DB) NewsSummaryRepository {
	return &newsSummaryRepository{db: tx}
}

var summaryUpdateColumns = []string{
	"executive_summary",
	"summary",
	"positive_catalysts",
	"risk_factors",
	"overall_sentiment_id",
	"key_metrics",
	"disclaimer",
	"updated_at",
}

// Upsert writes the single summary row of summary.SecurityID, overwriting every content
// field when the row already exists. summary is reloaded from the stored row. The boolean
// reports whether the row was created.
func (r *newsSummaryRepository) Upsert(ctx context.Context, summary *entity.SecurityNewsSummary) (bool, error) {
	db := r.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&entity.SecurityNewsSummary{}).Where("security_id = ?", summary.SecurityID).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("count security_news_summary: %w", err)
	}

	summary.ID = 0
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "security_id"}},
		DoUpdates: clause.AssignmentColumns(summaryUpdateColumns),
	}).Create(summary).Error
	if err != nil {
		return false, fmt.Errorf("upsert security_news_summary: %w", err)
	}

	var stored entity.SecurityNewsSummary
	if err := db.Where("security_id = ?", summary.SecurityID).First(&stored).Error; err != nil {
		return false, fmt.Errorf("reload security_news_summary: %w", err)
	}
	*summary = stored

	return existing == 0, nil
}

// FindBySecurityID loads a summary with its sentiment and ordered highlights.
func (r *newsSummaryRepository) FindBySecurityID(ctx context.Context, securityID uint) (*entity.SecurityNewsSummary, error) {
	var summary entity.SecurityNewsSummary
	err := r.db.WithContext(ctx).
		Preload("OverallSentiment").
		Preload("KeyHighlights", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Where("security_id = ?", securityID).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsSummaryNotFound
		}
		return nil, err
	}
	return &summary, nil
}
