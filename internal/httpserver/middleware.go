package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/pkg/tokens"
)

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the bearer session token and stores the subject in
// the echo context.
func (d *Deps) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return respondError(c, http.StatusUnauthorized, "Please sign in to continue.")
		}
		claims, err := tokens.SessionClaimsFromToken(token, d.Secret)
		if err != nil {
			return respondError(c, http.StatusUnauthorized, "Please sign in to continue.")
		}
		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		return next(c)
	}
}

// RequireSeller additionally checks the session user's role.
func (d *Deps) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return d.RequireAuth(func(c echo.Context) error {
		user, err := d.Auth.CurrentUser(c.Request().Context())
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
		}
		if user == nil || (user.Role != models.RoleSeller && user.Role != models.RoleAdmin) {
			return respondError(c, http.StatusForbidden, "You do not have permission to perform this action.")
		}
		return next(c)
	})
}

func userID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}
