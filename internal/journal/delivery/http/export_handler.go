package http

import (
	"net/http"

	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExportHandler streams the caller's trades as CSV.
type ExportHandler struct {
	exportService service.ExportService
	logger        *logger.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService, logger *logger.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// RegisterRoutes registers the export routes to the Echo group.
func (h *ExportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/trades.csv", h.ExportTrades)
}

// ExportTrades godoc
// @Summary Download the caller's trades CSV
// @Tags export
// @Produce  text/csv
// @Success 200 {string} string
// @Failure 500 {object} dto.ErrorResponse
// @Router /export/trades.csv [get]
func (h *ExportHandler) ExportTrades(c echo.Context) error {
	data, err := h.exportService.ExportTrades(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		h.logger.Error("Trade export failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export trades"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="trades.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
