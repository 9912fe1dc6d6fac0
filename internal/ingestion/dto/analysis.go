package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewsItem is one article reported by the analysis agent.
type NewsItem struct {
	Headline    string `json:"headline"`
	Date        string `json:"date"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Favicon     string `json:"favicon"`
	ImpactLevel string `json:"impact_level" validate:"oneof=High Medium Low"`
	Summary     string `json:"summary"`
}

// SentimentAnalysis is the overall sentiment classification and its rationale.
type SentimentAnalysis struct {
	Sentiment       string `json:"sentiment" validate:"oneof=Bullish Bearish Neutral"`
	Rationale       string `json:"rationale"`
	ConfidenceLevel string `json:"confidence_level,omitempty" validate:"omitempty,oneof=High Medium Low"`
}

// UpcomingEvent is a catalyst the agent expects; Date may be a timeframe rather than a day.
type UpcomingEvent struct {
	Event      string `json:"event"`
	Date       string `json:"date"`
	Category   string `json:"category" validate:"oneof=Earnings Corporate_Actions Regulatory Strategic Industry Economic"`
	Importance string `json:"importance" validate:"oneof=High Medium Low"`
}

// KeyMetrics maps a metric name to its display value. Numbers and booleans produced by the
// model are converted to strings on decode.
type KeyMetrics map[string]string

// UnmarshalJSON accepts scalar values of any JSON type.
func (m *KeyMetrics) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("key_metrics must be an object: %w", err)
	}

	out := make(KeyMetrics, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[key] = s
			continue
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("key_metrics[%s]: %w", key, err)
		}
		switch t := v.(type) {
		case nil:
			out[key] = ""
		case float64:
			out[key] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(t)
		default:
			out[key] = strings.TrimSpace(string(value))
		}
	}
	*m = out
	return nil
}

// StockAnalysis is the structured result produced by the analysis agent for one symbol.
type StockAnalysis struct {
	Summary           string            `json:"summary"`
	KeyHighlights     []string          `json:"key_highlights"`
	OverallSentiment  SentimentAnalysis `json:"overall_sentiment"`
	ExecutiveSummary  string            `json:"executive_summary"`
	RecentNews        []NewsItem        `json:"recent_news" validate:"dive"`
	KeyMetrics        KeyMetrics        `json:"key_metrics"`
	PositiveCatalysts string            `json:"positive_catalysts"`
	RiskFactors       string            `json:"risk_factors"`
	UpcomingEvents    []UpcomingEvent   `json:"upcoming_events" validate:"dive"`
	Disclaimer        string            `json:"disclaimer"`
}

// Validate checks the enumerated fields. Free text may be empty.
func (a *StockAnalysis) Validate() error {
	if a == nil {
		return fmt.Errorf("analysis is nil")
	}
	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s=%s)", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid analysis: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid analysis: %w", err)
	}
	return nil
}

// MissingContent lists the narrative fields that are blank. The batch refresh refuses to
// store an analysis with missing narrative.
func (a *StockAnalysis) MissingContent() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"summary", a.Summary},
		{"executive_summary", a.ExecutiveSummary},
		{"positive_catalysts", a.PositiveCatalysts},
		{"risk_factors", a.RiskFactors},
		{"disclaimer", a.Disclaimer},
		{"overall_sentiment.sentiment", a.OverallSentiment.Sentiment},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
