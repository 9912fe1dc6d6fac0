package dto

import "time"

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SecurityResponse is a tracked security.
type SecurityResponse struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	SecurityType string `json:"security_type"`
	Exchange     string `json:"exchange"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// SentimentResponse is the overall sentiment of a digest.
type SentimentResponse struct {
	Sentiment       string `json:"sentiment"`
	Rationale       string `json:"rationale"`
	ConfidenceLevel string `json:"confidence_level,omitempty"`
}

// NewsSummaryResponse is the current news digest of a security.
type NewsSummaryResponse struct {
	Symbol            string            `json:"symbol"`
	Summary           string            `json:"summary"`
	ExecutiveSummary  string            `json:"executive_summary"`
	KeyHighlights     []string          `json:"key_highlights"`
	OverallSentiment  SentimentResponse `json:"overall_sentiment"`
	KeyMetrics        map[string]string `json:"key_metrics"`
	PositiveCatalysts string            `json:"positive_catalysts"`
	RiskFactors       string            `json:"risk_factors"`
	Disclaimer        string            `json:"disclaimer"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewsItemResponse is one stored article.
type NewsItemResponse struct {
	Headline    string `json:"headline"`
	Date        string `json:"date" example:"2025-03-14"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Favicon     string `json:"favicon,omitempty"`
	ImpactLevel string `json:"impact_level"`
	Summary     string `json:"summary"`
}

// UpcomingEventResponse is one expected catalyst.
type UpcomingEventResponse struct {
	Event      string `json:"event"`
	Date       string `json:"date" example:"Q1 2025"`
	Category   string `json:"category"`
	Importance string `json:"importance"`
}
