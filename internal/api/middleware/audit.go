package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/core/ports"
)

// Audit records every state-changing request after it completes. GETs are
// skipped to keep the log focused on mutations. The actor comes from the
// claims attached by Auth; requests without an identity are logged as
// anonymous. Recording is asynchronous and never affects the response.
func Audit(recorder ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			req := c.Request()
			if req.Method == http.MethodGet {
				return err
			}

			entry := domain.AuditEntry{
				ActorID:    domain.AuditAnonymousActor,
				ActorRole:  domain.AuditGuestRole,
				Action:     req.Method + " " + c.Path(),
				TargetType: "USER",
				TargetID:   "N/A",
				Status:     domain.AuditSuccess,
				Timestamp:  time.Now().UTC(),
			}
			if claims, ok := ClaimsFrom(c); ok {
				entry.ActorID = claims.UserID
				entry.ActorRole = claims.Role
			}
			if id := c.Param("id"); id != "" {
				entry.TargetID = id
			}
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				entry.Status = domain.AuditFailure
			}

			recorder.Record(entry)
			return err
		}
	}
}
