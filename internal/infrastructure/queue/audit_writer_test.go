package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairprep/identity/internal/core/domain"
)

type collectRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *collectRepo) Insert(_ context.Context, entry domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *collectRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestAuditWriter_DrainsEntries(t *testing.T) {
	repo := &collectRepo{}
	writer := NewAuditWriter(repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	writer.Start(ctx)

	for i := 0; i < 5; i++ {
		writer.Record(domain.AuditEntry{
			ActorID:   "user_1",
			ActorRole: "admin",
			Action:    "DELETE /users/:id",
			Status:    domain.AuditSuccess,
			Timestamp: time.Now(),
		})
	}

	deadline := time.After(2 * time.Second)
	for repo.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("expected 5 entries persisted, got %d", repo.count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAuditWriter_DropsWhenFull(t *testing.T) {
	repo := &collectRepo{}
	writer := NewAuditWriter(repo, zerolog.Nop())
	// Not started: the buffer fills and overflow is dropped without blocking.

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			writer.Record(domain.AuditEntry{Action: "POST /auth/login"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
}
