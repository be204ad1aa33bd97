package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pairprep/identity/internal/api/metrics"
	"github.com/pairprep/identity/internal/token"
)

// claimsKey is the echo context key under which verified claims are stored.
const claimsKey = "auth_claims"

// CookieName is the cookie carrying the identity token.
const CookieName = "token"

// Auth verifies the identity token and injects typed claims into the context.
// The token is taken from a Bearer Authorization header when present,
// otherwise from the token cookie; the header wins when both are set. Any
// other Authorization scheme is ignored and the cookie is consulted.
func Auth(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}

	// A header with any other scheme does not claim the request; the
	// cookie still counts.
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClaimsFrom returns the verified claims attached by Auth, if any.
func ClaimsFrom(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*token.Claims)
	return claims, ok
}
