package service

import (
	"context"

	"github.com/google/uuid"

	"chat_store/internal/domain"
	"chat_store/internal/metrics"
	"chat_store/internal/repository"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

type RoomService interface {
	// Create stores a new room. A non-nil actorID is added to the participants.
	Create(ctx context.Context, actorID uuid.UUID, roomType domain.RoomType, projectID *uuid.UUID, participantIDs []uuid.UUID) (*domain.ChatRoom, error)
	GetByID(ctx context.Context, roomID uuid.UUID) (*domain.ChatRoom, error)
	GetProjectRoom(ctx context.Context, projectID uuid.UUID) (*domain.ChatRoom, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ChatRoom, error)
	Delete(ctx context.Context, actorID, roomID uuid.UUID) error
	AddParticipant(ctx context.Context, actorID, roomID, userID uuid.UUID) (bool, error)
	RemoveParticipant(ctx context.Context, actorID, roomID, userID uuid.UUID) (bool, error)
	// Authorize returns ErrRoomNotFound or ErrNotParticipant unless userID
	// belongs to the room.
	Authorize(ctx context.Context, roomID, userID uuid.UUID) error
}

type roomService struct {
	roomRepo repository.RoomRepository
	audit    AuditService
	now      Clock
	log      logger.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, audit AuditService, now Clock, log logger.Logger) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		audit:    audit,
		now:      now,
		log:      log,
	}
}

func (s *roomService) Create(ctx context.Context, actorID uuid.UUID, roomType domain.RoomType, projectID *uuid.UUID, participantIDs []uuid.UUID) (*domain.ChatRoom, error) {
	if actorID != uuid.Nil {
		participantIDs = append([]uuid.UUID{actorID}, participantIDs...)
	}

	room, err := domain.NewChatRoom(roomType, projectID, participantIDs, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	metrics.RecordRoomCreated(string(room.RoomType))

	payload := map[string]interface{}{
		"room_type":    string(room.RoomType),
		"participants": len(room.Participants),
	}
	if room.ProjectID != nil {
		payload["project_id"] = room.ProjectID.String()
	}
	s.audit.LogEvent(ctx, actorID, &room.ID, domain.EventTypeRoomCreated, payload)

	s.log.Info("Room created", "room_id", room.ID, "room_type", room.RoomType)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, roomID uuid.UUID) (*domain.ChatRoom, error) {
	return s.roomRepo.GetByID(ctx, roomID)
}

func (s *roomService) GetProjectRoom(ctx context.Context, projectID uuid.UUID) (*domain.ChatRoom, error) {
	return s.roomRepo.GetByProject(ctx, projectID)
}

func (s *roomService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ChatRoom, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.roomRepo.ListByParticipant(ctx, userID, limit, offset)
}

func (s *roomService) Delete(ctx context.Context, actorID, roomID uuid.UUID) error {
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, actorID, &roomID, domain.EventTypeRoomDeleted, nil)
	s.log.Info("Room deleted", "room_id", roomID)
	return nil
}

func (s *roomService) AddParticipant(ctx context.Context, actorID, roomID, userID uuid.UUID) (bool, error) {
	added, err := s.roomRepo.AddParticipant(ctx, roomID, userID)
	if err != nil {
		return false, err
	}

	if added {
		s.audit.LogEvent(ctx, actorID, &roomID, domain.EventTypeParticipantAdded, map[string]interface{}{
			"user_id": userID.String(),
		})
	}
	return added, nil
}

func (s *roomService) RemoveParticipant(ctx context.Context, actorID, roomID, userID uuid.UUID) (bool, error) {
	removed, err := s.roomRepo.RemoveParticipant(ctx, roomID, userID)
	if err != nil {
		return false, err
	}

	if removed {
		s.audit.LogEvent(ctx, actorID, &roomID, domain.EventTypeParticipantRemoved, map[string]interface{}{
			"user_id": userID.String(),
		})
	}
	return removed, nil
}

func (s *roomService) Authorize(ctx context.Context, roomID, userID uuid.UUID) error {
	ok, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotParticipant
	}
	return nil
}
