// Package client implements the session hydration contract against the
// gateway: ask "who am I" with credentials attached, and treat any answer
// other than a 200 as signed out. Callers never see transport or status
// detail for this call, matching what the browser flow observes.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const mePath = "/api/users/me"

// Identity is the hydrated caller identity returned by the gateway.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Client hydrates sessions against a gateway origin.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the gateway at baseURL
// (e.g. "http://localhost:3000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient is New with a caller-supplied http.Client, for custom
// timeouts or transports.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Me resolves the identity behind token. It returns nil whenever the caller
// is effectively signed out: missing or rejected token, unreachable gateway,
// or a malformed response. Error subtypes are deliberately not surfaced.
func (c *Client) Me(ctx context.Context, token string) *Identity {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil
	}
	return &id
}

// RequireRole hydrates the session and checks the role. The check runs only
// after hydration resolves, so an unreachable gateway reads as a denied
// gate, never as a false grant.
func (c *Client) RequireRole(ctx context.Context, token, role string) (*Identity, bool) {
	id := c.Me(ctx, token)
	if id == nil || id.Role != role {
		return nil, false
	}
	return id, true
}
