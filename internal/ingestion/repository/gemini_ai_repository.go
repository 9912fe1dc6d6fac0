package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-stock-newsdigest/internal/ingestion/config"
	"golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository backed by Gemini with Google Search grounding.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
	clock          utils.Clock
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client, clock utils.Clock) (AIRepository, error) {
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("gemini.max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
		clock:          clock,
	}, nil
}

// GetStockAnalysis asks the model to research symbol and decodes its JSON answer.
func (r *geminiAIRepository) GetStockAnalysis(ctx context.Context, symbol string) (*dto.StockAnalysis, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if r.cfg.Gemini.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Gemini.Timeout)
		defer cancel()
	}

	prompt := BuildStockAnalysisPrompt(symbol, r.clock.Now())
	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		r.logger.Error("Failed to generate content", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if resp.UsageMetadata != nil {
		r.logger.Debug("Gemini token usage",
			logger.StringField("symbol", symbol),
			logger.IntField("total_tokens", int(resp.UsageMetadata.TotalTokenCount)),
		)
	}

	analysis, err := ParseStockAnalysis(resp.Text())
	if err != nil {
		r.logger.Error("Failed to parse analysis from Gemini response", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}
	return analysis, nil
}

// ParseStockAnalysis extracts the JSON object from a model answer, tolerating code fences
// and leading prose.
func ParseStockAnalysis(text string) (*dto.StockAnalysis, error) {
	raw := strings.TrimSpace(text)
	raw = strings.Trim(raw, "`")
	raw = strings.TrimPrefix(raw, "json")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var analysis dto.StockAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &analysis, nil
}
