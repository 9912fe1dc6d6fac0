package repository

import (
	"context"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsItemRepository defines the interface for interacting with news items.
type NewsItemRepository interface {
	WithTx(tx *gorm.DB) NewsItemRepository
	ExistsByURL(ctx context.Context, url string) (bool, error)
	CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error)
	FindRecentBySecurityID(ctx context.Context, securityID uint, limit int) ([]entity.NewsItem, error)
}

// NewNewsItemRepository creates a new instance of NewsItemRepository.
func NewNewsItemRepository(db *gorm.DB) NewsItemRepository {
	return &newsItemRepository{db: db}
}

type newsItemRepository struct {
	db *gorm.DB
}

func (r *newsItemRepository) WithTx(tx *gorm.DB) NewsItemRepository {
	return &newsItemRepository{db: tx}
}

// ExistsByURL reports whether any security already has an item with this URL.
func (r *newsItemRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.NewsItem{}).Where("url = ?", url).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIgnoreConflict inserts item unless its URL is already stored. The boolean reports
// whether a row was inserted.
func (r *newsItemRepository) CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindRecentBySecurityID returns the newest items of a security, newest publication first.
func (r *newsItemRepository) FindRecentBySecurityID(ctx context.Context, securityID uint, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	q := r.db.WithContext(ctx).Where("security_id = ?", securityID).Order("date desc, created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
