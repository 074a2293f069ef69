package service

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"chat_store/internal/config"
	"chat_store/internal/domain"
	"chat_store/internal/metrics"
	"chat_store/internal/repository"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

type ChatService interface {
	// PostMessage stores the message when the sender is a participant of
	// the room at insert time.
	PostMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*domain.Message, error)
	GetMessage(ctx context.Context, messageID int64) (*domain.Message, error)
	// ListMessages returns one page of the room's log in (timestamp, id)
	// order, starting after page.After.
	ListMessages(ctx context.Context, roomID uuid.UUID, page domain.PageRequest) (*domain.MessagePage, error)
	// Iterate walks the whole log lazily, fetching pageSize messages at a
	// time. Each call to the returned sequence starts from the beginning.
	Iterate(ctx context.Context, roomID uuid.UUID, pageSize int) iter.Seq2[*domain.Message, error]
}

type chatService struct {
	messageRepo repository.MessageRepository
	roomRepo    repository.RoomRepository
	cfg         config.ChatConfig
	now         Clock
	log         logger.Logger
}

func NewChatService(messageRepo repository.MessageRepository, roomRepo repository.RoomRepository, cfg config.ChatConfig, now Clock, log logger.Logger) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		cfg:         cfg,
		now:         now,
		log:         log,
	}
}

func (s *chatService) PostMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*domain.Message, error) {
	message, err := domain.NewMessage(roomID, senderID, content, s.cfg.MaxMessageLength, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	metrics.RecordMessagePosted()
	s.log.Debug("Message posted", "message_id", message.ID, "room_id", roomID)
	return message, nil
}

func (s *chatService) GetMessage(ctx context.Context, messageID int64) (*domain.Message, error) {
	return s.messageRepo.GetByID(ctx, messageID)
}

func (s *chatService) ListMessages(ctx context.Context, roomID uuid.UUID, page domain.PageRequest) (*domain.MessagePage, error) {
	exists, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	limit := s.pageSize(page.Limit)

	// one extra row tells whether another page follows
	messages, err := s.messageRepo.ListPage(ctx, roomID, page.After, limit+1)
	if err != nil {
		return nil, err
	}

	result := &domain.MessagePage{Messages: messages}
	if len(messages) > limit {
		result.Messages = messages[:limit]
		result.NextCursor = domain.CursorOf(result.Messages[limit-1]).Encode()
	}
	return result, nil
}

func (s *chatService) Iterate(ctx context.Context, roomID uuid.UUID, pageSize int) iter.Seq2[*domain.Message, error] {
	return func(yield func(*domain.Message, error) bool) {
		page := domain.PageRequest{Limit: pageSize}
		for {
			result, err := s.ListMessages(ctx, roomID, page)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, message := range result.Messages {
				if !yield(message, nil) {
					return
				}
			}
			if result.NextCursor == "" {
				return
			}
			last := domain.CursorOf(result.Messages[len(result.Messages)-1])
			page.After = &last
		}
	}
}

func (s *chatService) pageSize(requested int) int {
	switch {
	case requested <= 0:
		return s.cfg.DefaultPageSize
	case s.cfg.MaxPageSize > 0 && requested > s.cfg.MaxPageSize:
		return s.cfg.MaxPageSize
	default:
		return requested
	}
}
