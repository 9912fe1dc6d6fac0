package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAnalysis() *StockAnalysis {
	return &StockAnalysis{
		Summary:          "Apple beat expectations.",
		KeyHighlights:    []string{"Revenue up", "Services record"},
		OverallSentiment: SentimentAnalysis{Sentiment: "Bullish", Rationale: "strong earnings", ConfidenceLevel: "High"},
		ExecutiveSummary: "Long form.",
		RecentNews: []NewsItem{
			{Headline: "Apple earnings", Date: "2025-01-30", URL: "https://example.com/a", ImpactLevel: "High"},
		},
		PositiveCatalysts: "AI features.",
		RiskFactors:       "China demand.",
		UpcomingEvents: []UpcomingEvent{
			{Event: "Earnings call", Date: "Q1 2025", Category: "Earnings", Importance: "High"},
		},
		Disclaimer: "Not advice.",
	}
}

func TestStockAnalysisValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validAnalysis().Validate())
	})

	t.Run("empty free text is allowed", func(t *testing.T) {
		a := validAnalysis()
		a.Summary = ""
		a.Disclaimer = ""
		a.KeyHighlights = nil
		assert.NoError(t, a.Validate())
	})

	t.Run("news url may be empty", func(t *testing.T) {
		a := validAnalysis()
		a.RecentNews = append(a.RecentNews, NewsItem{Headline: "no link", ImpactLevel: "Low"})
		assert.NoError(t, a.Validate())
	})

	t.Run("confidence may be unset", func(t *testing.T) {
		a := validAnalysis()
		a.OverallSentiment.ConfidenceLevel = ""
		assert.NoError(t, a.Validate())
	})

	tests := []struct {
		name   string
		mutate func(a *StockAnalysis)
		field  string
	}{
		{"bad sentiment", func(a *StockAnalysis) { a.OverallSentiment.Sentiment = "Positive" }, "Sentiment"},
		{"missing sentiment", func(a *StockAnalysis) { a.OverallSentiment.Sentiment = "" }, "Sentiment"},
		{"bad confidence", func(a *StockAnalysis) { a.OverallSentiment.ConfidenceLevel = "Very High" }, "ConfidenceLevel"},
		{"bad impact", func(a *StockAnalysis) { a.RecentNews[0].ImpactLevel = "Huge" }, "ImpactLevel"},
		{"bad category", func(a *StockAnalysis) { a.UpcomingEvents[0].Category = "Product" }, "Category"},
		{"bad importance", func(a *StockAnalysis) { a.UpcomingEvents[0].Importance = "Urgent" }, "Importance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAnalysis()
			tt.mutate(a)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("nil analysis", func(t *testing.T) {
		var a *StockAnalysis
		assert.Error(t, a.Validate())
	})
}

func TestStockAnalysisMissingContent(t *testing.T) {
	a := validAnalysis()
	assert.Empty(t, a.MissingContent())

	a.RiskFactors = "   "
	a.Disclaimer = ""
	assert.Equal(t, []string{"risk_factors", "disclaimer"}, a.MissingContent())
}

func TestKeyMetricsUnmarshal(t *testing.T) {
	var a StockAnalysis
	payload := `{"key_metrics": {"price": "$230.10", "pe_ratio": 34.5, "volume": 1200000, "profitable": true, "beta": null}}`

	require.NoError(t, json.Unmarshal([]byte(payload), &a))

	assert.Equal(t, KeyMetrics{
		"price":      "$230.10",
		"pe_ratio":   "34.5",
		"volume":     "1200000",
		"profitable": "true",
		"beta":       "",
	}, a.KeyMetrics)
}

func TestKeyMetricsUnmarshalRejectsNonObject(t *testing.T) {
	var a StockAnalysis
	err := json.Unmarshal([]byte(`{"key_metrics": ["price"]}`), &a)
	assert.Error(t, err)
}
