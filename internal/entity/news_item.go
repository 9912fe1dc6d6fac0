package entity

import (
	"time"

	"gorm.io/datatypes"
)

// NewsItem is an article about a security. URL is unique across all securities.
type NewsItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SecurityID  uint           `gorm:"not null;index" json:"security_id"`
	Headline    string         `gorm:"type:varchar(500);not null" json:"headline"`
	Date        datatypes.Date `gorm:"not null" json:"date"`
	Source      string         `gorm:"type:varchar(100)" json:"source"`
	URL         string         `gorm:"column:url;type:varchar(2048);uniqueIndex;not null" json:"url"`
	Favicon     string         `gorm:"type:varchar(2048)" json:"favicon"`
	ImpactLevel string         `gorm:"type:varchar(10)" json:"impact_level"`
	Summary     string         `gorm:"type:text" json:"summary"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_items"
}

const (
	EventCategoryEarnings         = "Earnings"
	EventCategoryCorporateActions = "Corporate_Actions"
	EventCategoryRegulatory       = "Regulatory"
	EventCategoryStrategic        = "Strategic"
	EventCategoryIndustry         = "Industry"
	EventCategoryEconomic         = "Economic"
)

// UpcomingEvent is a catalyst to watch. Date is kept as written ("Q1 2025", "2025-02-01", ...).
type UpcomingEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SecurityID uint      `gorm:"not null;index" json:"security_id"`
	Event      string    `gorm:"type:text;not null" json:"event"`
	Date       string    `gorm:"type:text" json:"date"`
	Category   string    `gorm:"type:varchar(20)" json:"category"`
	Importance string    `gorm:"type:varchar(10)" json:"importance"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name for the UpcomingEvent model.
func (UpcomingEvent) TableName() string {
	return "upcoming_events"
}

// RetentionKind names a per-security collection subject to rolling-window retention.
type RetentionKind string

const (
	RetentionKindNewsItem      RetentionKind = "news_item"
	RetentionKindUpcomingEvent RetentionKind = "upcoming_event"
)
