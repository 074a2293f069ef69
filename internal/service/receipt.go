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

type ReceiptService interface {
	// MarkSeen records that userID has seen the message. Repeated calls
	// return the first receipt with created set to false.
	MarkSeen(ctx context.Context, messageID int64, userID uuid.UUID) (*domain.MessageSeenReceipt, bool, error)
	ListSeenBy(ctx context.Context, messageID int64) ([]*domain.MessageSeenReceipt, error)
	UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (*domain.UnreadCount, error)
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	roomRepo    repository.RoomRepository
	now         Clock
	log         logger.Logger
}

func NewReceiptService(receiptRepo repository.ReceiptRepository, roomRepo repository.RoomRepository, now Clock, log logger.Logger) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		roomRepo:    roomRepo,
		now:         now,
		log:         log,
	}
}

func (s *receiptService) MarkSeen(ctx context.Context, messageID int64, userID uuid.UUID) (*domain.MessageSeenReceipt, bool, error) {
	receipt, created, err := s.receiptRepo.MarkSeen(ctx, messageID, userID, s.now())
	if err != nil {
		return nil, false, err
	}

	metrics.RecordReceipt(created)
	return receipt, created, nil
}

func (s *receiptService) ListSeenBy(ctx context.Context, messageID int64) ([]*domain.MessageSeenReceipt, error) {
	return s.receiptRepo.ListByMessage(ctx, messageID)
}

func (s *receiptService) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (*domain.UnreadCount, error) {
	exists, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	unread, err := s.receiptRepo.UnreadCount(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UnreadCount{RoomID: roomID, UserID: userID, Unread: unread}, nil
}
