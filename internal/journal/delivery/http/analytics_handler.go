package http

import (
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves dashboard views.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, logger: logger}
}

// RegisterRoutes registers the analytics routes to the Echo group.
func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/summary", h.Summary)
	g.GET("/equity-curve", h.EquityCurve)
	g.GET("/by-day", h.series("day"))
	g.GET("/by-weekday", h.series("weekday"))
	g.GET("/by-hour", h.series("hour"))
	g.GET("/by-symbol", h.series("symbol"))
	g.GET("/by-strategy", h.series("strategy"))
	g.GET("/by-emotion", h.series("emotion"))
	g.GET("/by-mistake", h.series("mistake"))
}

// Summary godoc
// @Summary Get the headline statistics block
// @Tags analytics
// @Produce  json
// @Param   month  query   string  false   "Restrict to one month, YYYY-MM"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid filter"})
	}

	resp, err := h.analyticsService.Summary(c.Request().Context(), currentUser(c).ID, filter)
	if err != nil {
		h.logger.Error("Failed to compute summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute summary"})
	}
	return c.JSON(http.StatusOK, resp)
}

// EquityCurve godoc
// @Summary Get the cumulative net P&L series
// @Tags analytics
// @Produce  json
// @Success 200 {object} dto.EquityCurveResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/equity-curve [get]
func (h *AnalyticsHandler) EquityCurve(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid filter"})
	}

	resp, err := h.analyticsService.EquityCurve(c.Request().Context(), currentUser(c).ID, filter)
	if err != nil {
		h.logger.Error("Failed to compute equity curve", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute equity curve"})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AnalyticsHandler) series(dimension string) echo.HandlerFunc {
	return func(c echo.Context) error {
		filter, err := bindFilter(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid filter"})
		}

		resp, err := h.analyticsService.Series(c.Request().Context(), currentUser(c).ID, dimension, filter)
		if err != nil {
			h.logger.Error("Failed to compute series", logger.ErrorField(err), logger.StringField("dimension", dimension))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute " + dimension + " breakdown"})
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func bindFilter(c echo.Context) (dto.AnalyticsFilter, error) {
	var filter dto.AnalyticsFilter
	err := c.Bind(&filter)
	return filter, err
}
