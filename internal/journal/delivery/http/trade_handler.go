package http

import (
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradeHandler handles HTTP requests for trades.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTrade)
	g.GET("", h.ListTrades)
	g.GET("/:id", h.GetTrade)
	g.PUT("/:id", h.UpdateTrade)
	g.POST("/:id/close", h.CloseTrade)
	g.DELETE("/:id", h.DeleteTrade)
}

// CreateTrade godoc
// @Summary Log a new trade
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   trade  body    dto.CreateTradeRequest   true    "Trade to log"
// @Success 201 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [post]
func (h *TradeHandler) CreateTrade(c echo.Context) error {
	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.tradeService.CreateTrade(c.Request().Context(), currentUser(c).ID, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListTrades godoc
// @Summary List the caller's trades
// @Tags trades
// @Produce  json
// @Success 200 {array} dto.TradeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [get]
func (h *TradeHandler) ListTrades(c echo.Context) error {
	var filter dto.ListTradesFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid filter"})
	}

	trades, err := h.tradeService.ListTrades(c.Request().Context(), currentUser(c).ID, &filter)
	if err != nil {
		h.logger.Error("Failed to list trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load trades"})
	}
	return c.JSON(http.StatusOK, trades)
}

// GetTrade godoc
// @Summary Get a single trade
// @Tags trades
// @Produce  json
// @Param   id  path    string  true    "Trade ID"
// @Success 200 {object} dto.TradeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /trades/{id} [get]
func (h *TradeHandler) GetTrade(c echo.Context) error {
	resp, err := h.tradeService.GetTrade(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Trade not found"})
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateTrade godoc
// @Summary Replace the editable fields of a trade
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   id     path    string                   true    "Trade ID"
// @Param   trade  body    dto.UpdateTradeRequest   true    "New trade fields"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /trades/{id} [put]
func (h *TradeHandler) UpdateTrade(c echo.Context) error {
	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.tradeService.UpdateTrade(c.Request().Context(), currentUser(c).ID, c.Param("id"), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// CloseTrade godoc
// @Summary Close an open trade
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   id    path    string                  true    "Trade ID"
// @Param   exit  body    dto.CloseTradeRequest   true    "Exit details"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /trades/{id}/close [post]
func (h *TradeHandler) CloseTrade(c echo.Context) error {
	var req dto.CloseTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.tradeService.CloseTrade(c.Request().Context(), currentUser(c).ID, c.Param("id"), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteTrade godoc
// @Summary Delete a trade
// @Tags trades
// @Param   id  path    string  true    "Trade ID"
// @Success 204
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/{id} [delete]
func (h *TradeHandler) DeleteTrade(c echo.Context) error {
	if err := h.tradeService.DeleteTrade(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete trade"})
	}
	return c.NoContent(http.StatusNoContent)
}
