package http

import (
	"net/http"

	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the admin surface: user approval, cross-user reads,
// and the users CSV export.
type AdminHandler struct {
	userService   service.UserService
	tradeService  service.TradeService
	exportService service.ExportService
	logger        *logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService service.UserService, tradeService service.TradeService, exportService service.ExportService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		tradeService:  tradeService,
		exportService: exportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the admin routes to the Echo group.
func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.POST("/users/:id/approve", h.ApproveUser)
	g.POST("/users/:id/reject", h.RejectUser)
	g.GET("/trades", h.ListAllTrades)
	g.GET("/export/users.csv", h.ExportUsers)
}

// ListAllTrades godoc
// @Summary List every trade across all users
// @Tags admin
// @Produce  json
// @Success 200 {array} dto.TradeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/trades [get]
func (h *AdminHandler) ListAllTrades(c echo.Context) error {
	trades, err := h.tradeService.ListAllTrades(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load trades"})
	}
	return c.JSON(http.StatusOK, trades)
}

// ListUsers godoc
// @Summary List every profile
// @Tags admin
// @Produce  json
// @Success 200 {array} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load users"})
	}
	return c.JSON(http.StatusOK, users)
}

// ApproveUser godoc
// @Summary Approve a pending account
// @Tags admin
// @Produce  json
// @Param   id  path    string  true    "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/users/{id}/approve [post]
func (h *AdminHandler) ApproveUser(c echo.Context) error {
	resp, err := h.userService.ApproveUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to approve user", logger.ErrorField(err), logger.StringField("user_id", c.Param("id")))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to approve user"})
	}
	return c.JSON(http.StatusOK, resp)
}

// RejectUser godoc
// @Summary Reject a pending account
// @Tags admin
// @Produce  json
// @Param   id  path    string  true    "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/users/{id}/reject [post]
func (h *AdminHandler) RejectUser(c echo.Context) error {
	resp, err := h.userService.RejectUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to reject user", logger.ErrorField(err), logger.StringField("user_id", c.Param("id")))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to reject user"})
	}
	return c.JSON(http.StatusOK, resp)
}

// ExportUsers godoc
// @Summary Download the profiles CSV
// @Tags admin
// @Produce  text/csv
// @Success 200 {string} string
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/export/users.csv [get]
func (h *AdminHandler) ExportUsers(c echo.Context) error {
	data, err := h.exportService.ExportUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export users"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
