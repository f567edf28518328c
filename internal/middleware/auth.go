package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/harshk49/notes-app-backend/internal/auth"
)

// RequireAuth returns an Echo middleware that validates a Bearer access
// token and injects the verified identity into the request context. The
// provided secret must match the one used when issuing tokens. Handlers
// behind this middleware read the owner identity via c.Get("user_id") and
// c.Get("email"); that binding is the only identity source downstream, a
// client-supplied owner id is never trusted.
//
// A missing or malformed Authorization header, an invalid signature and an
// expired token all produce the same generic 401 body; none of the detail
// is surfaced to the caller.
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   true,
					"message": "unauthorized",
				})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.VerifyToken(secret, raw)
			if err != nil {
				// Invalid and expired collapse into one response on purpose.
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   true,
					"message": "unauthorized",
				})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			return next(c)
		}
	}
}
