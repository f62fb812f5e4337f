package http

import (
	"net/http"
	"strings"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/service"

	"github.com/labstack/echo/v4"
)

const contextKeyUser = "journal.user"

// AuthMiddleware resolves the bearer token to a user session.
type AuthMiddleware struct {
	userService service.UserService
}

// NewAuthMiddleware creates the session middleware.
func NewAuthMiddleware(userService service.UserService) *AuthMiddleware {
	return &AuthMiddleware{userService: userService}
}

// RequireUser rejects requests without a valid session.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing bearer token"})
		}

		user, err := m.userService.Authenticate(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired session"})
		}

		c.Set(contextKeyUser, user)
		return next(c)
	}
}

// RequireAdmin rejects non-admin sessions. Must run after RequireUser.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user == nil || user.Role != entity.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin access required"})
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *entity.User {
	user, _ := c.Get(contextKeyUser).(*entity.User)
	return user
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
