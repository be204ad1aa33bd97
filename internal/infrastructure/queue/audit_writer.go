package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pairprep/identity/internal/api/metrics"
	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// AuditWriter persists audit entries off the request path. Entries are
// buffered in a channel and drained by a small worker pool; when the buffer
// is full the entry is dropped and counted, never blocking a request.
type AuditWriter struct {
	entries chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditWriter creates an AuditWriter draining into repo.
func NewAuditWriter(repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	return &AuditWriter{
		entries: make(chan domain.AuditEntry, channelBuffer),
		repo:    repo,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled;
// entries still buffered at that point are not flushed.
func (w *AuditWriter) Start(ctx context.Context) {
	for i := 0; i < defaultWorkers; i++ {
		go w.runWorker(ctx)
	}
}

// Record enqueues an entry without blocking. Implements ports.AuditRecorder.
func (w *AuditWriter) Record(entry domain.AuditEntry) {
	select {
	case w.entries <- entry:
	default:
		metrics.AuditDroppedTotal.Inc()
		w.log.Warn().
			Str("action", entry.Action).
			Msg("audit buffer full, entry dropped")
	}
}

func (w *AuditWriter) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-w.entries:
			if !ok {
				return
			}
			if err := w.repo.Insert(ctx, entry); err != nil {
				w.log.Error().Err(err).
					Str("action", entry.Action).
					Str("actor_id", entry.ActorID).
					Msg("audit write failed")
			}
		}
	}
}
