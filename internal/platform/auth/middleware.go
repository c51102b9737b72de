package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const principalKey = "auth.principal"

// Middleware authenticates requests via the Authorization: Bearer header and
// stores the resulting Principal on the echo context.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
			}
			principal, err := issuer.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated caller stored by Middleware.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// SetPrincipal injects a caller identity directly, for handler tests.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}
