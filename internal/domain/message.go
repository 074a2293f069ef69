package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "chat_store/pkg/errors"
)

type Message struct {
	ID        int64     `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessage(roomID, senderID uuid.UUID, content string, maxLength int, now time.Time) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("content must not be empty")
	}
	if maxLength > 0 && utf8.RuneCountInString(content) > maxLength {
		return nil, apperrors.Validation("content exceeds %d characters", maxLength)
	}
	return &Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: now,
	}, nil
}

// MessageCursor is the position of a message in its room's log. Messages
// are ordered by (Timestamp, ID).
type MessageCursor struct {
	Timestamp time.Time
	ID        int64
}

func CursorOf(m *Message) MessageCursor {
	return MessageCursor{Timestamp: m.Timestamp, ID: m.ID}
}

func (c MessageCursor) Encode() string {
	raw := fmt.Sprintf("%d:%d", c.Timestamp.UnixMicro(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (*MessageCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.Validation("malformed cursor")
	}
	microsPart, idPart, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, apperrors.Validation("malformed cursor")
	}
	micros, err := strconv.ParseInt(microsPart, 10, 64)
	if err != nil || micros < 0 {
		return nil, apperrors.Validation("malformed cursor")
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.Validation("malformed cursor")
	}
	return &MessageCursor{Timestamp: time.UnixMicro(micros).UTC(), ID: id}, nil
}

type PageRequest struct {
	After *MessageCursor
	Limit int
}

type MessagePage struct {
	Messages   []*Message `json:"messages"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
