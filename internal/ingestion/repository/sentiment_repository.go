package repository

import (
	"context"
	"fmt"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SentimentRepository resolves shared sentiment rows.
type SentimentRepository interface {
	WithTx(tx *gorm.DB) SentimentRepository
	GetOrCreate(ctx context.Context, sentiment *entity.OverallSentiment) (bool, error)
}

type sentimentRepository struct {
	db *gorm.DB
}

// NewSentimentRepository creates a new instance of SentimentRepository.
func NewSentimentRepository(db *gorm.DB) SentimentRepository {
	return &sentimentRepository{db: db}
}

func (r *sentimentRepository) WithTx(tx *gorm.DB) SentimentRepository {
	return &sentimentRepository{db: tx}
}

// GetOrCreate fills sentiment with the stored row for its (sentiment, rationale) pair,
// inserting it first if needed. ConfidenceLevel only applies to a new row. The boolean
// reports whether the row was created by this call.
//
// A concurrent insert of the same pair is absorbed by the unique hash: the losing INSERT
// does nothing and the follow-up SELECT sees the winner's row.
func (r *sentimentRepository) GetOrCreate(ctx context.Context, sentiment *entity.OverallSentiment) (bool, error) {
	sentiment.HashIdentifier = entity.SentimentHash(sentiment.Sentiment, sentiment.Rationale)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash_identifier"}},
		DoNothing: true,
	}).Create(sentiment)
	if result.Error != nil {
		return false, fmt.Errorf("insert overall_sentiment: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var existing entity.OverallSentiment
	if err := r.db.WithContext(ctx).Where("hash_identifier = ?", sentiment.HashIdentifier).First(&existing).Error; err != nil {
		return false, fmt.Errorf("load overall_sentiment: %w", err)
	}
	*sentiment = existing
	return false, nil
}
