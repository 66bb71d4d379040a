package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/observability"
)

// AuditService records session lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionIssued, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionRefreshed, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionRevoked, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventValidationFailed, a.handleValidationFailed)
}

func (a *AuditService) handleSessionEvent(_ context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("identity", event.Identity),
		zap.String("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleValidationFailed(_ context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	a.logger.Debug(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("identity", event.Identity),
		zap.Any("payload", event.Payload))
	return nil
}
