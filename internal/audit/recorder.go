// Package audit appends immutable entries to the audit trail.
//
// Writes are fire-and-forget by contract: whatever goes wrong while
// persisting or publishing an entry is logged for operators and then
// swallowed, so the caller's primary operation is never rolled back or
// failed because of its audit side effect.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/supporthub/support-desk/internal/kafka"
	"github.com/supporthub/support-desk/internal/metrics"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/repository"
	"go.uber.org/zap"
)

// Entry is what callers hand to the recorder; timestamps and IDs are
// filled in here.
type Entry struct {
	Kind        model.AuditKind
	Description string
	CustomerID  *int64
	Actor       *string
	SourceIP    *string
	Metadata    map[string]any
}

type Recorder struct {
	repo     repository.AuditWriter
	producer kafka.AuditEventProducer
	log      *zap.Logger
}

func NewRecorder(repo repository.AuditWriter, producer kafka.AuditEventProducer, log *zap.Logger) *Recorder {
	return &Recorder{repo: repo, producer: producer, log: log}
}

// Record persists the entry and streams it to Kafka. It never returns an
// error: persistence failures are logged, counted and dropped.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	metadata := []byte(`{}`)
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			// unmarshalable metadata is a programming error; keep the entry
			r.log.Warn("audit: drop metadata", zap.Error(err), zap.String("kind", e.Kind.String()))
		} else {
			metadata = b
		}
	}

	row := &model.AuditEntry{
		Kind:        e.Kind,
		Description: e.Description,
		CustomerID:  e.CustomerID,
		Actor:       e.Actor,
		SourceIP:    e.SourceIP,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}
	if err := r.repo.Insert(ctx, row); err != nil {
		metrics.AuditWriteFailures.Inc()
		r.log.Error("audit: insert failed",
			zap.Error(err),
			zap.String("kind", e.Kind.String()),
			zap.String("description", e.Description),
		)
		return
	}

	if r.producer == nil {
		return
	}
	// The event should go out even if the request context is already
	// cancelled, but with its own deadline.
	payload := map[string]any{
		"audit_id":    row.ID,
		"kind":        row.Kind.String(),
		"description": row.Description,
		"customer_id": e.CustomerID,
		"actor":       e.Actor,
		"source_ip":   e.SourceIP,
		"metadata":    e.Metadata,
	}
	go func() {
		eventCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.producer.ProduceAuditEvent(eventCtx, "audit.recorded", payload)
	}()
}
