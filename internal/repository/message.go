//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat_store/internal/domain"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

type MessageRepository interface {
	// Create returns ErrRoomNotFound, ErrUserNotFound or ErrNotParticipant
	// when the sender cannot post into the room.
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id int64) (*domain.Message, error)
	// ListPage returns up to limit messages of the room positioned strictly
	// after the cursor, in (timestamp, id) order.
	ListPage(ctx context.Context, roomID uuid.UUID, after *domain.MessageCursor, limit int) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

// Create inserts the message only while the sender belongs to the room;
// membership and insert are one statement.
func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (room_id, sender_id, content, created_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (
			SELECT 1 FROM chat_room_participants
			WHERE room_id = $1 AND user_id = $2
		)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.RoomID, message.SenderID, message.Content, message.Timestamp,
	).Scan(&message.ID, &message.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.rejectionReason(ctx, message)
		}
		if mapped, ok := translate(err); ok {
			return mapped
		}
		r.log.Error("Failed to create message", "room_id", message.RoomID, "error", err)
		return err
	}

	return nil
}

// rejectionReason explains why Create inserted nothing.
func (r *messageRepository) rejectionReason(ctx context.Context, message *domain.Message) error {
	var roomExists, userExists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat_rooms WHERE id = $1),
		       EXISTS (SELECT 1 FROM users WHERE id = $2)
	`, message.RoomID, message.SenderID).Scan(&roomExists, &userExists)
	if err != nil {
		r.log.Error("Failed to check message references", "room_id", message.RoomID, "error", err)
		return err
	}

	switch {
	case !roomExists:
		return apperrors.ErrRoomNotFound
	case !userExists:
		return apperrors.ErrUserNotFound
	default:
		return apperrors.ErrNotParticipant
	}
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	query := `
		SELECT id, room_id, sender_id, content, created_at
		FROM messages
		WHERE id = $1
	`

	message := &domain.Message{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID, &message.RoomID, &message.SenderID, &message.Content, &message.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		r.log.Error("Failed to get message", "message_id", id, "error", err)
		return nil, err
	}

	return message, nil
}

func (r *messageRepository) ListPage(ctx context.Context, roomID uuid.UUID, after *domain.MessageCursor, limit int) ([]*domain.Message, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		rows, err = r.db.Query(ctx, `
			SELECT id, room_id, sender_id, content, created_at
			FROM messages
			WHERE room_id = $1
			ORDER BY created_at ASC, id ASC
			LIMIT $2
		`, roomID, limit)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT id, room_id, sender_id, content, created_at
			FROM messages
			WHERE room_id = $1 AND (created_at, id) > ($2, $3)
			ORDER BY created_at ASC, id ASC
			LIMIT $4
		`, roomID, after.Timestamp, after.ID, limit)
	}
	if err != nil {
		r.log.Error("Failed to list messages", "room_id", roomID, "error", err)
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0, limit)
	for rows.Next() {
		message := &domain.Message{}
		if err := rows.Scan(
			&message.ID, &message.RoomID, &message.SenderID, &message.Content, &message.Timestamp,
		); err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to iterate messages", "room_id", roomID, "error", err)
		return nil, err
	}

	return messages, nil
}
