// Package gateway implements the same-origin API gateway that fronts the
// user service. It forwards requests verbatim (credentials included) and
// relays upstream responses without re-deriving identity: the user service
// stays the only component that ever verifies a token.
package gateway

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pairprep/identity/internal/api/metrics"
	"github.com/pairprep/identity/internal/api/middleware"
)

const (
	userUnavailable = "User service unavailable"
	authUnavailable = "Auth service unavailable"
)

// Proxy forwards gateway requests to the user service.
type Proxy struct {
	upstream string
	client   *http.Client
	log      zerolog.Logger
}

// NewProxy returns a Proxy that forwards to the user service at upstream
// (e.g. "http://localhost:4001"). Forwarded requests are bounded by timeout.
func NewProxy(upstream string, timeout time.Duration, log zerolog.Logger) *Proxy {
	return &Proxy{
		upstream: strings.TrimRight(upstream, "/"),
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Register forwards POST /api/users/register to the user service.
func (p *Proxy) Register(c echo.Context) error {
	return p.forward(c, http.MethodPost, "/auth/register", authUnavailable)
}

// Login forwards POST /api/users/login. The upstream Set-Cookie header is
// relayed so the browser receives the identity token from the gateway origin.
func (p *Proxy) Login(c echo.Context) error {
	return p.forward(c, http.MethodPost, "/auth/login", authUnavailable)
}

// Logout notifies the user service best-effort and always clears the token
// cookie locally: logout never fails from the caller's point of view, even
// with the user service down.
func (p *Proxy) Logout(c echo.Context) error {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, p.upstream+"/auth/logout", nil)
	if err == nil {
		copyCredentials(c.Request(), req)
		if resp, err := p.client.Do(req); err == nil {
			resp.Body.Close()
		} else {
			p.log.Warn().Err(err).Msg("logout: user service unreachable, clearing cookie locally")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me forwards GET /api/users/me.
func (p *Proxy) Me(c echo.Context) error {
	return p.forward(c, http.MethodGet, "/users/me", userUnavailable)
}

// ListAll forwards GET /api/users/all to the admin listing route.
func (p *Proxy) ListAll(c echo.Context) error {
	return p.forward(c, http.MethodGet, "/users/", userUnavailable)
}

// UpdateProfile forwards PUT /api/users/profile.
func (p *Proxy) UpdateProfile(c echo.Context) error {
	return p.forward(c, http.MethodPut, "/users/profile", userUnavailable)
}

// Delete forwards DELETE /api/users/:id.
func (p *Proxy) Delete(c echo.Context) error {
	return p.forward(c, http.MethodDelete, "/users/"+c.Param("id"), userUnavailable)
}

// forward relays the incoming request to the user service and streams the
// upstream response back unmodified. Only transport failures are translated;
// upstream error statuses pass through as-is.
func (p *Proxy) forward(c echo.Context, method, path, unavailableMsg string) error {
	in := c.Request()

	req, err := http.NewRequestWithContext(in.Context(), method, p.upstream+path, in.Body)
	if err != nil {
		p.log.Error().Err(err).Str("path", path).Msg("gateway: build upstream request")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMsg})
	}
	copyCredentials(in, req)
	if ct := in.Header.Get(echo.HeaderContentType); ct != "" {
		req.Header.Set(echo.HeaderContentType, ct)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(c.Path()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(c.Path()).Inc()
		p.log.Error().Err(err).Str("route", c.Path()).Msg("gateway: user service unreachable")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMsg})
	}
	defer resp.Body.Close()

	for _, sc := range resp.Header.Values(echo.HeaderSetCookie) {
		c.Response().Header().Add(echo.HeaderSetCookie, sc)
	}

	if resp.StatusCode == http.StatusNoContent {
		return c.NoContent(http.StatusNoContent)
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

// copyCredentials carries the caller's credentials upstream verbatim. The
// gateway never parses or re-issues them.
func copyCredentials(in, out *http.Request) {
	if cookie := in.Header.Get("Cookie"); cookie != "" {
		out.Header.Set("Cookie", cookie)
	}
	if auth := in.Header.Get(echo.HeaderAuthorization); auth != "" {
		out.Header.Set(echo.HeaderAuthorization, auth)
	}
}
