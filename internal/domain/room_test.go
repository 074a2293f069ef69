package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "chat_store/pkg/errors"
)

func TestParseRoomType(t *testing.T) {
	req := require.New(t)

	rt, err := ParseRoomType(" project ")
	req.NoError(err)
	req.Equal(RoomTypeProject, rt)

	rt, err = ParseRoomType("PRIVATE")
	req.NoError(err)
	req.Equal(RoomTypePrivate, rt)

	_, err = ParseRoomType("GROUP")
	req.ErrorIs(err, apperrors.ErrValidation)
}

func TestNewChatRoom(t *testing.T) {
	now := time.Now().UTC()
	projectID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	t.Run("project room keeps project and deduplicates participants", func(t *testing.T) {
		req := require.New(t)
		room, err := NewChatRoom(RoomTypeProject, &projectID, []uuid.UUID{alice, bob, alice, uuid.Nil}, now)
		req.NoError(err)
		req.NotEqual(uuid.Nil, room.ID)
		req.Equal(projectID, *room.ProjectID)
		req.Equal([]uuid.UUID{alice, bob}, room.Participants)
		req.Equal(now, room.CreatedAt)
		req.True(room.HasParticipant(bob))
		req.False(room.HasParticipant(uuid.New()))
	})

	t.Run("each room gets its own id", func(t *testing.T) {
		a, err := NewChatRoom(RoomTypePrivate, nil, nil, now)
		require.NoError(t, err)
		b, err := NewChatRoom(RoomTypePrivate, nil, nil, now)
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
		require.NotNil(t, a.Participants)
	})

	t.Run("project room without project is rejected", func(t *testing.T) {
		_, err := NewChatRoom(RoomTypeProject, nil, nil, now)
		require.ErrorIs(t, err, apperrors.ErrValidation)

		nilID := uuid.Nil
		_, err = NewChatRoom(RoomTypeProject, &nilID, nil, now)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("private room with project is rejected", func(t *testing.T) {
		_, err := NewChatRoom(RoomTypePrivate, &projectID, nil, now)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := NewChatRoom(RoomType("GROUP"), nil, nil, now)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
