package ports

import (
	"context"

	"github.com/pairprep/identity/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence.
// Record never blocks the request path; entries may be dropped under
// sustained backpressure.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}
