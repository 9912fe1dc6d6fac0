package repository

import (
	"fmt"
	"time"
)

// BuildStockAnalysisPrompt builds the instruction sent to the model for one symbol.
func BuildStockAnalysisPrompt(symbol string, today time.Time) string {
	return fmt.Sprintf(`You are a senior equity analyst writing for retail investors. Today is %s.

Search the web for news about the %s stock from the last 30 days. Prefer Reuters, Bloomberg,
The Wall Street Journal, SEC filings, CNBC, MarketWatch, Yahoo Finance and company press releases.

Respond with ONE JSON object and nothing else, using exactly these keys:

{
  "summary": "1-2 sentences on the current situation",
  "key_highlights": ["3 to 5 short bullet points, most material first"],
  "overall_sentiment": {
    "sentiment": "Bullish | Bearish | Neutral",
    "rationale": "2-3 sentences explaining the classification",
    "confidence_level": "High | Medium | Low"
  },
  "executive_summary": "3-4 paragraphs covering recent performance and developments",
  "recent_news": [
    {
      "headline": "factual title",
      "date": "YYYY-MM-DD",
      "source": "publisher name",
      "url": "full URL of the article you found",
      "favicon": "favicon URL of the publisher, or empty string",
      "impact_level": "High | Medium | Low",
      "summary": "2-3 sentences on what happened and why it matters"
    }
  ],
  "key_metrics": {"Current Price": "$0.00", "Market Cap": "$0B", "P/E Ratio": "0x"},
  "positive_catalysts": "2-3 paragraphs on upside drivers",
  "risk_factors": "2-3 paragraphs on headwinds",
  "upcoming_events": [
    {
      "event": "what is expected",
      "date": "a date when known, otherwise a timeframe such as Q1 2025",
      "category": "Earnings | Corporate_Actions | Regulatory | Strategic | Industry | Economic",
      "importance": "High | Medium | Low"
    }
  ],
  "disclaimer": "statement that this is informational and not investment advice"
}

Rules:
- Enumerated values must match one of the listed options exactly.
- Only include news items with a real URL taken from your search results.
- key_metrics values are strings.
- Do not speculate beyond what the sources support.`, today.Format("2006-01-02"), symbol)
}
