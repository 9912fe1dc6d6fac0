package repository

import (
	"context"
	"fmt"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
)

// KeyHighlightRepository manages the ordered highlights of a news summary.
type KeyHighlightRepository interface {
	WithTx(tx *gorm.DB) KeyHighlightRepository
	Replace(ctx context.Context, summaryID uint, highlights []string) ([]entity.KeyHighlight, error)
}

// NewKeyHighlightRepository creates a new instance of KeyHighlightRepository.
func NewKeyHighlightRepository(db *gorm.DB) KeyHighlightRepository {
	return &keyHighlightRepository{db: db}
}

type keyHighlightRepository struct {
	db *gorm.DB
}

func (r *keyHighlightRepository) WithTx(tx *gorm.DB) KeyHighlightRepository {
	return &keyHighlightRepository{db: tx}
}

// Replace deletes every highlight of the summary and inserts highlights in order,
// position being the slice index. An empty slice leaves the summary without highlights.
func (r *keyHighlightRepository) Replace(ctx context.Context, summaryID uint, highlights []string) ([]entity.KeyHighlight, error) {
	db := r.db.WithContext(ctx)

	if err := db.Where("security_news_summary_id = ?", summaryID).Delete(&entity.KeyHighlight{}).Error; err != nil {
		return nil, fmt.Errorf("delete key_highlights: %w", err)
	}

	if len(highlights) == 0 {
		return []entity.KeyHighlight{}, nil
	}

	rows := make([]entity.KeyHighlight, len(highlights))
	for i, text := range highlights {
		rows[i] = entity.KeyHighlight{
			SecurityNewsSummaryID: summaryID,
			Highlight:             text,
			Position:              i,
		}
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("insert key_highlights: %w", err)
	}
	return rows, nil
}
