package entity

import "time"

// Security is a tradable instrument (stock, ETF, ADR) identified by its ticker symbol.
type Security struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Symbol       string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"symbol"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	SecurityType string    `gorm:"type:varchar(10)" json:"security_type"`
	Exchange     string    `gorm:"type:varchar(50)" json:"exchange"`
	LogoURL      string    `gorm:"column:logo_url" json:"logo_url"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Security model.
func (Security) TableName() string {
	return "securities"
}

// WatchlistItem marks a user's interest in a security. Securities with at least one
// watchlist item are refreshed by the ingestion batch.
type WatchlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_watchlist_user_security" json:"user_id"`
	SecurityID uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_security" json:"security_id"`
	Security   *Security `gorm:"foreignKey:SecurityID" json:"security,omitempty"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// TableName specifies the table name for the WatchlistItem model.
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
