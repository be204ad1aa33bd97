package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pairprep/identity/internal/api/middleware"
	"github.com/pairprep/identity/internal/token"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a protected handler reached
// without claims means the middleware did not run, which is a wiring bug
// surfaced as 401 rather than a panic.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
