package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated user's role claim is one of the
// allowed role names (e.g. "Admin", "Rental Agent", "Customer"). It assumes
// JWTAuth has already stored the role in the context. A user whose roles were
// removed keeps a stale claim until the access token expires; the short
// access TTL bounds that window.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"statusCode": http.StatusForbidden,
					"message":    "forbidden",
				})
			}
			return next(c)
		}
	}
}
