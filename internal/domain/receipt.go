package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageSeenReceipt struct {
	ID        int64     `json:"id"`
	MessageID int64     `json:"message_id"`
	UserID    uuid.UUID `json:"user_id"`
	SeenAt    time.Time `json:"seen_at"`
}

type UnreadCount struct {
	RoomID uuid.UUID `json:"room_id"`
	UserID uuid.UUID `json:"user_id"`
	Unread int64     `json:"unread"`
}
