package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biobalance/admin/internal/mq"
	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditPublishTimeout = 5 * time.Second

// AuditService publishes audit events. Publishing is best effort: a
// missing broker or a failed publish is logged and otherwise ignored.
type AuditService struct {
	backend mq.Backend
	channel string
	log     *zap.Logger
	now     func() time.Time
}

// NewAuditService accepts a nil backend, in which case events are only
// logged.
func NewAuditService(backend mq.Backend, channel string, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		backend: backend,
		channel: channel,
		log:     logger,
		now:     time.Now,
	}
}

// Record publishes one event and returns it.
func (s *AuditService) Record(ctx context.Context, kind types.AuditKind, actor string, details map[string]string) types.AuditEvent {
	event := types.AuditEvent{
		ID:      uuid.NewString(),
		Kind:    kind,
		Actor:   actor,
		At:      s.now().UTC(),
		Details: details,
	}
	s.log.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("kind", string(kind)),
		zap.String("actor", actor))

	if s.backend == nil {
		return event
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("audit: encode event", zap.Error(err))
		return event
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditPublishTimeout)
	defer cancel()
	if _, err := s.backend.Publish(pubCtx, s.channel, data, map[string]string{"kind": string(kind)}); err != nil {
		s.log.Warn("audit: publish failed",
			zap.String("event_id", event.ID),
			zap.String("channel", s.channel),
			zap.Error(err))
	}
	return event
}

// Tail blocks, passing every event received on the audit channel to fn,
// until ctx is done.
func (s *AuditService) Tail(ctx context.Context, fn func(types.AuditEvent)) error {
	if s.backend == nil {
		return mq.ErrNotConfigured
	}
	return s.backend.Subscribe(ctx, s.channel, func(ctx context.Context, msg mq.Message) error {
		var event types.AuditEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.log.Warn("audit: dropping malformed event", zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		fn(event)
		return nil
	})
}

// Close releases the broker connection, if any.
func (s *AuditService) Close() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close mq: %w", err)
	}
	return nil
}
