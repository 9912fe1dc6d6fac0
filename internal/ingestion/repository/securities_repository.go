package repository

import (
	"context"
	"errors"
	"strings"

	"golang-stock-newsdigest/internal/entity"

	"gorm.io/gorm"
)

// ErrSecurityNotFound is returned when no active security has the requested symbol.
var ErrSecurityNotFound = errors.New("security not found")

// SecuritiesRepository reads the securities the ingestion batch works on.
type SecuritiesRepository interface {
	FindWatchlisted(ctx context.Context) ([]entity.Security, error)
	FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error)
}

type securitiesRepository struct {
	db *gorm.DB
}

// NewSecuritiesRepository creates a new instance of SecuritiesRepository.
func NewSecuritiesRepository(db *gorm.DB) SecuritiesRepository {
	return &securitiesRepository{db: db}
}

// FindWatchlisted returns the active securities present in at least one user's watchlist.
func (r *securitiesRepository) FindWatchlisted(ctx context.Context) ([]entity.Security, error) {
	var securities []entity.Security
	watched := r.db.Model(&entity.WatchlistItem{}).Distinct("security_id")
	err := r.db.WithContext(ctx).
		Where("id IN (?) AND is_active = ?", watched, true).
		Order("symbol").
		Find(&securities).Error
	if err != nil {
		return nil, err
	}
	return securities, nil
}

// FindActiveBySymbol looks a security up by its symbol, case-insensitively.
func (r *securitiesRepository) FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error) {
	var security entity.Security
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(symbol)), true).
		First(&security).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecurityNotFound
		}
		return nil, err
	}
	return &security, nil
}
