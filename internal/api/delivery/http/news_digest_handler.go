package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-newsdigest/internal/api/service"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsDigestHandler handles HTTP requests for security news digests.
type NewsDigestHandler struct {
	digestService    service.NewsDigestService
	defaultNewsLimit int
	maxNewsLimit     int
	logger           *logger.Logger
}

// NewNewsDigestHandler creates a new NewsDigestHandler.
func NewNewsDigestHandler(digestService service.NewsDigestService, defaultNewsLimit, maxNewsLimit int, logger *logger.Logger) *NewsDigestHandler {
	return &NewsDigestHandler{
		digestService:    digestService,
		defaultNewsLimit: defaultNewsLimit,
		maxNewsLimit:     maxNewsLimit,
		logger:           logger,
	}
}

// RegisterRoutes registers the news digest routes to the Echo group.
func (h *NewsDigestHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/watchlisted", h.GetWatchlistedSecurities)
	g.GET("/:symbol/news-summary", h.GetNewsSummary)
	g.GET("/:symbol/news", h.GetRecentNews)
	g.GET("/:symbol/events", h.GetUpcomingEvents)
}

func (h *NewsDigestHandler) notFoundOrError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrSecurityNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Security not found"})
	case errors.Is(err, repository.ErrNewsSummaryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "News summary not available yet"})
	default:
		h.logger.Error(msg, logger.ErrorField(err), logger.StringField("symbol", c.Param("symbol")))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
}

// GetWatchlistedSecurities godoc
// @Summary List watchlisted securities
// @Description Securities present in at least one user's watchlist
// @Tags securities
// @Produce  json
// @Success 200 {array} dto.SecurityResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /securities/watchlisted [get]
func (h *NewsDigestHandler) GetWatchlistedSecurities(c echo.Context) error {
	securities, err := h.digestService.GetWatchlistedSecurities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list securities"})
	}
	return c.JSON(http.StatusOK, securities)
}

// GetNewsSummary godoc
// @Summary Get the news summary of a security
// @Description Current digest with sentiment and ordered key highlights
// @Tags securities
// @Produce  json
// @Param   symbol  path    string true    "Ticker symbol"
// @Success 200 {object} dto.NewsSummaryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /securities/{symbol}/news-summary [get]
func (h *NewsDigestHandler) GetNewsSummary(c echo.Context) error {
	summary, err := h.digestService.GetNewsSummary(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.notFoundOrError(c, err, "Failed to get news summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GetRecentNews godoc
// @Summary Get recent news of a security
// @Description Stored news items, newest publication date first
// @Tags securities
// @Produce  json
// @Param   symbol  path    string true    "Ticker symbol"
// @Param   limit   query   int    false   "Maximum number of items"
// @Success 200 {array} dto.NewsItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /securities/{symbol}/news [get]
func (h *NewsDigestHandler) GetRecentNews(c echo.Context) error {
	limit := h.defaultNewsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}
	if h.maxNewsLimit > 0 && limit > h.maxNewsLimit {
		limit = h.maxNewsLimit
	}

	items, err := h.digestService.GetRecentNews(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		return h.notFoundOrError(c, err, "Failed to get news")
	}
	return c.JSON(http.StatusOK, items)
}

// GetUpcomingEvents godoc
// @Summary Get upcoming events of a security
// @Description Expected catalysts, most important first
// @Tags securities
// @Produce  json
// @Param   symbol  path    string true    "Ticker symbol"
// @Success 200 {array} dto.UpcomingEventResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /securities/{symbol}/events [get]
func (h *NewsDigestHandler) GetUpcomingEvents(c echo.Context) error {
	events, err := h.digestService.GetUpcomingEvents(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.notFoundOrError(c, err, "Failed to get upcoming events")
	}
	return c.JSON(http.StatusOK, events)
}
