package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sewadar-registry/internal/model"
)

// AuditService is the write path of the audit trail. Every successful
// mutating action goes through Record exactly once, attributed to the
// authenticated actor from the request, never to anything client-supplied.
type AuditService struct {
	store   AuditStore
	retries int
	backoff time.Duration
	now     func() time.Time
}

func NewAuditService(store AuditStore, retries int) *AuditService {
	if retries < 0 {
		retries = 0
	}

	return &AuditService{
		store:   store,
		retries: retries,
		backoff: 100 * time.Millisecond,
		now:     time.Now,
	}
}

// Record appends one audit record and returns its id, or 0 if the write
// ultimately failed. The write is attempted after the mutation it describes
// has been applied, with a bounded retry on failure; a failed write is
// surfaced to operational logging but never propagated, so a completed
// business mutation is never failed because of its audit record. The write
// outlives client disconnects: the audit record is a compliance artifact,
// so request cancellation is deliberately not propagated to it.
func (s *AuditService) Record(ctx context.Context, action model.AuditAction, actor model.AuditActor, entityType string, entityID string, detail string) int64 {
	if s == nil {
		return 0
	}

	if !action.Valid() {
		slog.Error("audit record dropped: unknown action", "action", string(action))
		return 0
	}
	if strings.TrimSpace(actor.UserID) == "" {
		slog.Error("audit record dropped: missing actor", "action", string(action))
		return 0
	}

	rec := model.AuditRecord{
		Action:     action,
		Actor:      actor,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: s.now().UTC(),
	}

	writeCtx := context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff)
		}

		id, err := s.store.Append(writeCtx, rec)
		if err == nil {
			return id
		}
		lastErr = err
	}

	slog.Error("audit write failed",
		"action", string(action),
		"actor_id", actor.UserID,
		"entity_type", entityType,
		"entity_id", entityID,
		"attempts", s.retries+1,
		"error", lastErr)
	return 0
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	return s.store.Query(ctx, query)
}
