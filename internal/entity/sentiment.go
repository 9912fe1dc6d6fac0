package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
	SentimentNeutral = "Neutral"
)

// Level is shared by confidence, impact and importance ratings.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// OverallSentiment is a sentiment classification with its rationale. Rows are shared:
// the same (sentiment, rationale) pair always resolves to one row, keyed by HashIdentifier.
type OverallSentiment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Sentiment       string    `gorm:"type:varchar(10);not null" json:"sentiment"`
	Rationale       string    `gorm:"type:text;not null" json:"rationale"`
	ConfidenceLevel *string   `gorm:"type:varchar(10)" json:"confidence_level,omitempty"`
	HashIdentifier  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the OverallSentiment model.
func (OverallSentiment) TableName() string {
	return "overall_sentiments"
}

// SentimentHash derives the natural key of a sentiment row.
func SentimentHash(sentiment, rationale string) string {
	sum := sha256.Sum256([]byte(sentiment + "\x00" + rationale))
	return hex.EncodeToString(sum[:])
}
