package entity

import (
	"time"

	"gorm.io/datatypes"
)

// SecurityNewsSummary is the current news digest of a security. There is at most one row
// per security; each ingestion overwrites it in place.
type SecurityNewsSummary struct {
	ID                 uint                                  `gorm:"primaryKey" json:"id"`
	SecurityID         uint                                  `gorm:"uniqueIndex;not null" json:"security_id"`
	Security           *Security                             `gorm:"foreignKey:SecurityID" json:"-"`
	ExecutiveSummary   string                                `gorm:"type:text" json:"executive_summary"`
	Summary            string                                `gorm:"type:text" json:"summary"`
	PositiveCatalysts  string                                `gorm:"type:text" json:"positive_catalysts"`
	RiskFactors        string                                `gorm:"type:text" json:"risk_factors"`
	OverallSentimentID uint                                  `gorm:"not null;index" json:"overall_sentiment_id"`
	OverallSentiment   *OverallSentiment                     `gorm:"foreignKey:OverallSentimentID" json:"overall_sentiment,omitempty"`
	KeyMetrics         datatypes.JSONType[map[string]string] `json:"key_metrics"`
	Disclaimer         string                                `gorm:"type:text" json:"disclaimer"`
	KeyHighlights      []KeyHighlight                        `gorm:"foreignKey:SecurityNewsSummaryID" json:"key_highlights,omitempty"`
	CreatedAt          time.Time                             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                             `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the SecurityNewsSummary model.
func (SecurityNewsSummary) TableName() string {
	return "security_news_summaries"
}

// KeyHighlight is one ordered bullet of a news summary.
type KeyHighlight struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	SecurityNewsSummaryID uint      `gorm:"not null;index:idx_key_highlights_summary_position" json:"-"`
	Highlight             string    `gorm:"type:text;not null" json:"highlight"`
	Position              int       `gorm:"column:position;not null;index:idx_key_highlights_summary_position" json:"position"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the KeyHighlight model.
func (KeyHighlight) TableName() string {
	return "key_highlights"
}
