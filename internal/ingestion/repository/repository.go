package repository

import (
	"context"

	"golang-stock-newsdigest/internal/ingestion/dto"
)

// AIRepository produces a structured news analysis for a symbol.
type AIRepository interface {
	GetStockAnalysis(ctx context.Context, symbol string) (*dto.StockAnalysis, error)
}

// FaviconRepository looks up the icon of the site serving a page.
type FaviconRepository interface {
	ResolveFavicon(ctx context.Context, pageURL string) (string, error)
}
