//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks

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

type RoomRepository interface {
	Create(ctx context.Context, room *domain.ChatRoom) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.ChatRoom, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ChatRoom, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	// IsParticipant returns ErrRoomNotFound when the room does not exist.
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

type roomRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRoomRepository(db *pgxpool.Pool, log logger.Logger) RoomRepository {
	return &roomRepository{db: db, log: log}
}

const selectRoom = `
	SELECT r.id, r.room_type, r.project_id, r.created_at,
	       COALESCE(array_agg(p.user_id ORDER BY p.added_at, p.user_id)
	                FILTER (WHERE p.user_id IS NOT NULL), '{}')
	FROM chat_rooms r
	LEFT JOIN chat_room_participants p ON p.room_id = r.id
`

func scanRoom(row pgx.Row) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{}
	var roomType string
	err := row.Scan(&room.ID, &roomType, &room.ProjectID, &room.CreatedAt, &room.Participants)
	if err != nil {
		return nil, err
	}
	room.RoomType = domain.RoomType(roomType)
	if room.Participants == nil {
		room.Participants = []uuid.UUID{}
	}
	return room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.ChatRoom) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO chat_rooms (id, room_type, project_id, created_at)
			VALUES ($1, $2, $3, $4)
		`, room.ID, string(room.RoomType), room.ProjectID, room.CreatedAt)
		if err != nil {
			return err
		}

		for _, userID := range room.Participants {
			_, err := tx.Exec(ctx, `
				INSERT INTO chat_room_participants (room_id, user_id, added_at)
				VALUES ($1, $2, $3)
				ON CONFLICT (room_id, user_id) DO NOTHING
			`, room.ID, userID, room.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if mapped, ok := translate(err); ok {
			return mapped
		}
		r.log.Error("Failed to create room", "room_id", room.ID, "error", err)
		return err
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, selectRoom+` WHERE r.id = $1 GROUP BY r.id`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		r.log.Error("Failed to get room by ID", "room_id", id, "error", err)
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chat_rooms WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check room", "room_id", id, "error", err)
		return false, err
	}
	return exists, nil
}

func (r *roomRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*domain.ChatRoom, error) {
	room, err := scanRoom(r.db.QueryRow(ctx,
		selectRoom+` WHERE r.room_type = $1 AND r.project_id = $2 GROUP BY r.id`,
		string(domain.RoomTypeProject), projectID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		r.log.Error("Failed to get room by project", "project_id", projectID, "error", err)
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ChatRoom, error) {
	query := selectRoom + `
		WHERE r.id IN (SELECT room_id FROM chat_room_participants WHERE user_id = $1)
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list rooms", "user_id", userID, "error", err)
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.ChatRoom, 0, limit)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room", "error", err)
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to iterate rooms", "error", err)
		return nil, err
	}

	return rooms, nil
}

// Delete removes the room; messages, receipts and memberships go with it
// through ON DELETE CASCADE.
func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_rooms WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete room", "room_id", id, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRoomNotFound
	}
	return nil
}

func (r *roomRepository) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO chat_room_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID)
	if err != nil {
		if mapped, ok := translate(err); ok {
			return false, mapped
		}
		r.log.Error("Failed to add participant", "room_id", roomID, "user_id", userID, "error", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *roomRepository) RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var removed bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chat_rooms WHERE id = $1)`, roomID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrRoomNotFound
		}

		tag, err := tx.Exec(ctx, `DELETE FROM chat_room_participants WHERE room_id = $1 AND user_id = $2`, roomID, userID)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			return false, err
		}
		r.log.Error("Failed to remove participant", "room_id", roomID, "user_id", userID, "error", err)
		return false, err
	}
	return removed, nil
}

func (r *roomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var member bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat_room_participants WHERE room_id = r.id AND user_id = $2
		)
		FROM chat_rooms r
		WHERE r.id = $1
	`, roomID, userID).Scan(&member)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrRoomNotFound
		}
		r.log.Error("Failed to check participant", "room_id", roomID, "user_id", userID, "error", err)
		return false, err
	}
	return member, nil
}
