package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pairprep/identity/internal/api/metrics"
	"github.com/pairprep/identity/internal/api/middleware"
	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/core/ports"
)

// AuthHandler serves registration, login, and logout. Login plants the
// identity token in an HttpOnly cookie in addition to echoing it in the
// body for bearer-style clients.
type AuthHandler struct {
	authService   ports.AuthService
	cookieTTL     time.Duration
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	if cookieTTL <= 0 {
		cookieTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL, secureCookies: secureCookies}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation").Inc()
		return domain.ErrMissingCredentials
	}

	id, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "User registered",
		"id":      id,
	})
}

// Login authenticates a user, sets the token cookie, and returns the token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrMissingCredentials
	}

	signed, role, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.tokenCookie(signed, h.cookieTTL))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Login successful",
		"role":    role,
		"token":   signed,
	})
}

// Logout clears the token cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.tokenCookie("", -time.Second))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// tokenCookie builds the identity cookie. A non-positive maxAge expires it.
func (h *AuthHandler) tokenCookie(value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}

func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return "duplicate"
	case errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword):
		return "validation"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyLogins):
		return "throttled"
	default:
		return "error"
	}
}
