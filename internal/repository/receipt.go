//go:generate go run go.uber.org/mock/mockgen -source=receipt.go -destination=../mocks/mock_receipt_repository.go -package=mocks

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat_store/internal/domain"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

type ReceiptRepository interface {
	// MarkSeen inserts the (message, user) receipt unless one exists and
	// returns the stored receipt. created is false when it already existed.
	MarkSeen(ctx context.Context, messageID int64, userID uuid.UUID, seenAt time.Time) (receipt *domain.MessageSeenReceipt, created bool, err error)
	ListByMessage(ctx context.Context, messageID int64) ([]*domain.MessageSeenReceipt, error)
	UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int64, error)
}

type receiptRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewReceiptRepository(db *pgxpool.Pool, log logger.Logger) ReceiptRepository {
	return &receiptRepository{db: db, log: log}
}

func (r *receiptRepository) MarkSeen(ctx context.Context, messageID int64, userID uuid.UUID, seenAt time.Time) (*domain.MessageSeenReceipt, bool, error) {
	receipt := &domain.MessageSeenReceipt{}
	var created bool

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO message_seen_receipts (message_id, user_id, seen_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (message_id, user_id) DO NOTHING
			RETURNING id, message_id, user_id, seen_at
		`, messageID, userID, seenAt).Scan(&receipt.ID, &receipt.MessageID, &receipt.UserID, &receipt.SeenAt)
		if err == nil {
			created = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// conflict: the receipt is already there
		return tx.QueryRow(ctx, `
			SELECT id, message_id, user_id, seen_at
			FROM message_seen_receipts
			WHERE message_id = $1 AND user_id = $2
		`, messageID, userID).Scan(&receipt.ID, &receipt.MessageID, &receipt.UserID, &receipt.SeenAt)
	})
	if err != nil {
		if mapped, ok := translate(err); ok {
			return nil, false, mapped
		}
		r.log.Error("Failed to mark message seen", "message_id", messageID, "user_id", userID, "error", err)
		return nil, false, err
	}

	return receipt, created, nil
}

func (r *receiptRepository) ListByMessage(ctx context.Context, messageID int64) ([]*domain.MessageSeenReceipt, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, messageID).Scan(&exists); err != nil {
		r.log.Error("Failed to check message", "message_id", messageID, "error", err)
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrMessageNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, message_id, user_id, seen_at
		FROM message_seen_receipts
		WHERE message_id = $1
		ORDER BY seen_at ASC, id ASC
	`, messageID)
	if err != nil {
		r.log.Error("Failed to list receipts", "message_id", messageID, "error", err)
		return nil, err
	}
	defer rows.Close()

	receipts := []*domain.MessageSeenReceipt{}
	for rows.Next() {
		receipt := &domain.MessageSeenReceipt{}
		if err := rows.Scan(&receipt.ID, &receipt.MessageID, &receipt.UserID, &receipt.SeenAt); err != nil {
			r.log.Error("Failed to scan receipt", "error", err)
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to iterate receipts", "message_id", messageID, "error", err)
		return nil, err
	}

	return receipts, nil
}

func (r *receiptRepository) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	var unread int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM messages m
		WHERE m.room_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (
		      SELECT 1 FROM message_seen_receipts s
		      WHERE s.message_id = m.id AND s.user_id = $2
		  )
	`, roomID, userID).Scan(&unread)
	if err != nil {
		r.log.Error("Failed to count unread messages", "room_id", roomID, "user_id", userID, "error", err)
		return 0, err
	}
	return unread, nil
}
