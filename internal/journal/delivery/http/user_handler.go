package http

import (
	"errors"
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler handles registration, login, and profile requests.
type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterPublicRoutes registers the unauthenticated auth routes.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterRoutes registers the authenticated profile routes.
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
	g.GET("/profile", h.GetProfile)
	g.POST("/profile/payment-proof", h.SubmitPaymentProof)
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   account  body    dto.RegisterRequest   true    "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in and receive a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials  body    dto.LoginRequest   true    "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.userService.Login(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		}
		h.logger.Error("Login failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Invalidate the caller's session token
// @Tags auth
// @Success 204
// @Failure 500 {object} dto.ErrorResponse
// @Router /logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	if err := h.userService.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	resp, err := h.userService.GetProfile(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load profile"})
	}
	return c.JSON(http.StatusOK, resp)
}

// SubmitPaymentProof godoc
// @Summary Submit a payment proof and request approval
// @Tags users
// @Accept  json
// @Produce  json
// @Param   proof  body    dto.PaymentProofRequest   true    "Payment proof image URL"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /profile/payment-proof [post]
func (h *UserHandler) SubmitPaymentProof(c echo.Context) error {
	var req dto.PaymentProofRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.userService.SubmitPaymentProof(c.Request().Context(), currentUser(c).ID, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}
