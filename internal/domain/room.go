package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apperrors "chat_store/pkg/errors"
)

type RoomType string

const (
	RoomTypeProject RoomType = "PROJECT"
	RoomTypePrivate RoomType = "PRIVATE"
)

func (t RoomType) Valid() bool {
	return t == RoomTypeProject || t == RoomTypePrivate
}

// ParseRoomType accepts the two room types case-insensitively.
func ParseRoomType(s string) (RoomType, error) {
	t := RoomType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", apperrors.Validation("unknown room_type %q, expected PROJECT or PRIVATE", s)
	}
	return t, nil
}

type ChatRoom struct {
	ID           uuid.UUID   `json:"id"`
	RoomType     RoomType    `json:"room_type"`
	ProjectID    *uuid.UUID  `json:"project_id,omitempty"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewChatRoom builds a room with a fresh id. A PROJECT room must name its
// project and a PRIVATE room must not.
func NewChatRoom(roomType RoomType, projectID *uuid.UUID, participants []uuid.UUID, now time.Time) (*ChatRoom, error) {
	if !roomType.Valid() {
		return nil, apperrors.Validation("unknown room_type %q, expected PROJECT or PRIVATE", roomType)
	}
	if projectID != nil && *projectID == uuid.Nil {
		projectID = nil
	}
	switch {
	case roomType == RoomTypeProject && projectID == nil:
		return nil, apperrors.Validation("PROJECT room requires project_id")
	case roomType == RoomTypePrivate && projectID != nil:
		return nil, apperrors.Validation("PRIVATE room must not reference a project")
	}

	members := lo.Uniq(lo.Filter(participants, func(id uuid.UUID, _ int) bool {
		return id != uuid.Nil
	}))

	return &ChatRoom{
		ID:           uuid.New(),
		RoomType:     roomType,
		ProjectID:    projectID,
		Participants: members,
		CreatedAt:    now,
	}, nil
}

func (r *ChatRoom) HasParticipant(userID uuid.UUID) bool {
	return lo.Contains(r.Participants, userID)
}
