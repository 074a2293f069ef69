package service

import (
	"context"

	"github.com/google/uuid"

	"chat_store/internal/domain"
	"chat_store/internal/repository"
	"chat_store/pkg/logger"
)

// AuditService appends lifecycle events. Failures are logged and swallowed
// so they never fail the operation being audited.
type AuditService interface {
	LogEvent(ctx context.Context, actorUserID uuid.UUID, roomID *uuid.UUID, eventType string, payload map[string]interface{})
}

type auditService struct {
	auditRepo repository.AuditRepository
	now       Clock
	log       logger.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, now Clock, log logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		now:       now,
		log:       log,
	}
}

func (s *auditService) LogEvent(ctx context.Context, actorUserID uuid.UUID, roomID *uuid.UUID, eventType string, payload map[string]interface{}) {
	if payload == nil {
		payload = make(map[string]interface{})
	}

	auditLog := &domain.AuditLog{
		EventTime: s.now(),
		ActorRole: domain.ActorRoleService,
		RoomID:    roomID,
		EventType: eventType,
		Payload:   payload,
	}
	if actorUserID != uuid.Nil {
		auditLog.ActorUserID = &actorUserID
		auditLog.ActorRole = domain.ActorRoleUser
	}

	if err := s.auditRepo.CreateLog(ctx, auditLog); err != nil {
		s.log.Warn("Failed to write audit log", "event_type", eventType, "error", err)
	}
}
