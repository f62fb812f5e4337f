package http

import (
	"errors"
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SyncHandler serves the sync key endpoints and the admin vault endpoints.
type SyncHandler struct {
	vaultService service.VaultService
	logger       *logger.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(vaultService service.VaultService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{vaultService: vaultService, logger: logger}
}

// RegisterRoutes registers the sync-key routes to the Echo group.
func (h *SyncHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/key", h.ExportSyncKey)
	g.POST("/key", h.ImportSyncKey)
}

// RegisterVaultRoutes registers the admin vault routes to the Echo group.
func (h *SyncHandler) RegisterVaultRoutes(g *echo.Group) {
	g.POST("/vault/push", h.Push)
	g.POST("/vault/pull", h.Pull)
	g.GET("/vault/status", h.Status)
}

// ExportSyncKey godoc
// @Summary Export the dataset as a sync key
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.SyncKeyResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sync/key [get]
func (h *SyncHandler) ExportSyncKey(c echo.Context) error {
	resp, err := h.vaultService.ExportSyncKey(c.Request().Context())
	if err != nil {
		h.logger.Error("Sync key export failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export sync key"})
	}
	return c.JSON(http.StatusOK, resp)
}

// ImportSyncKey godoc
// @Summary Replace the dataset from a pasted sync key
// @Tags sync
// @Accept  json
// @Produce  json
// @Param   key  body    dto.ImportSyncKeyRequest   true    "Sync key"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /sync/key [post]
func (h *SyncHandler) ImportSyncKey(c echo.Context) error {
	var req dto.ImportSyncKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.vaultService.ImportSyncKey(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// Push godoc
// @Summary Upload the next vault snapshot version
// @Tags vault
// @Produce  json
// @Success 200 {object} dto.PushResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/vault/push [post]
func (h *SyncHandler) Push(c echo.Context) error {
	resp, err := h.vaultService.Push(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrStaleSnapshot) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Vault push failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Vault push failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Pull godoc
// @Summary Replace the local dataset from the remote snapshot
// @Tags vault
// @Produce  json
// @Success 200 {object} dto.ImportResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/vault/pull [post]
func (h *SyncHandler) Pull(c echo.Context) error {
	resp, err := h.vaultService.Pull(c.Request().Context())
	if err != nil {
		h.logger.Error("Vault pull failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary Compare local and remote snapshot versions
// @Tags vault
// @Produce  json
// @Success 200 {object} dto.VaultStatusResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/vault/status [get]
func (h *SyncHandler) Status(c echo.Context) error {
	resp, err := h.vaultService.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("Vault status failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to read vault status"})
	}
	return c.JSON(http.StatusOK, resp)
}
