package domain

import "time"

// Audit outcome values.
const (
	AuditSuccess = "SUCCESS"
	AuditFailure = "FAILURE"
)

// Actor placeholders used when a request carries no verified identity.
const (
	AuditAnonymousActor = "ANONYMOUS"
	AuditGuestRole      = "GUEST"
)

// AuditEntry records one state-changing request: who did what to which
// record, and whether it succeeded. Entries are immutable once written.
type AuditEntry struct {
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}
