package http

import (
	"net/http"
	"time"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReviewHandler serves AI coaching endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *logger.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService, logger *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

// RegisterRoutes registers the review routes to the Echo group.
func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/trades/:id", h.ReviewTrade)
	g.GET("/weekly-summary", h.WeeklySummary)
	g.POST("/ask", h.Ask)
}

// ReviewTrade godoc
// @Summary Generate an AI review of one trade
// @Tags review
// @Produce  json
// @Param   id  path    string  true    "Trade ID"
// @Success 200 {object} dto.TradeReviewResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /review/trades/{id} [post]
func (h *ReviewHandler) ReviewTrade(c echo.Context) error {
	resp, err := h.reviewService.ReviewTrade(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.logger.Error("Trade review failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate review"})
	}
	return c.JSON(http.StatusOK, resp)
}

// WeeklySummary godoc
// @Summary Generate coaching text for one week
// @Tags review
// @Produce  json
// @Param   week_of  query   string  false   "Any date inside the week, YYYY-MM-DD, defaults to now"
// @Success 200 {object} dto.WeeklySummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /review/weekly-summary [get]
func (h *ReviewHandler) WeeklySummary(c echo.Context) error {
	weekOf := time.Now()
	if raw := c.QueryParam("week_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid week_of, want YYYY-MM-DD"})
		}
		weekOf = parsed
	}

	resp, err := h.reviewService.WeeklySummary(c.Request().Context(), currentUser(c).ID, weekOf)
	if err != nil {
		h.logger.Error("Weekly summary failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate weekly summary"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Ask godoc
// @Summary Ask a free-form question over the journal
// @Tags review
// @Accept  json
// @Produce  json
// @Param   question  body    dto.AskRequest   true    "Question"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /review/ask [post]
func (h *ReviewHandler) Ask(c echo.Context) error {
	var req dto.AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.reviewService.Ask(c.Request().Context(), currentUser(c).ID, &req)
	if err != nil {
		h.logger.Error("Journal question failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to answer question"})
	}
	return c.JSON(http.StatusOK, resp)
}
