package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat_store/internal/config"
	"chat_store/internal/domain"
	"chat_store/internal/mocks"
	apperrors "chat_store/pkg/errors"
)

type chatFixture struct {
	svc         ChatService
	messageRepo *mocks.MockMessageRepository
	roomRepo    *mocks.MockRoomRepository
}

func newChatFixture(t *testing.T) chatFixture {
	ctrl := gomock.NewController(t)
	f := chatFixture{
		messageRepo: mocks.NewMockMessageRepository(ctrl),
		roomRepo:    mocks.NewMockRoomRepository(ctrl),
	}
	cfg := config.ChatConfig{MaxMessageLength: 10, DefaultPageSize: 2, MaxPageSize: 3}
	f.svc = NewChatService(f.messageRepo, f.roomRepo, cfg, fixedClock, testLog)
	return f
}

func seq(roomID uuid.UUID, ids ...int64) []*domain.Message {
	out := make([]*domain.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Message{
			ID:        id,
			RoomID:    roomID,
			Content:   "m",
			Timestamp: fixedNow.Add(time.Duration(id) * time.Second),
		})
	}
	return out
}

func TestChatService_PostMessage(t *testing.T) {
	ctx := context.Background()
	roomID, senderID := uuid.New(), uuid.New()

	t.Run("stored with generated timestamp", func(t *testing.T) {
		f := newChatFixture(t)
		f.messageRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, m *domain.Message) error {
			m.ID = 7
			return nil
		})

		msg, err := f.svc.PostMessage(ctx, roomID, senderID, "hi")
		require.NoError(t, err)
		require.Equal(t, int64(7), msg.ID)
		require.Equal(t, fixedNow, msg.Timestamp)
		require.Equal(t, "hi", msg.Content)
	})

	t.Run("blank content", func(t *testing.T) {
		f := newChatFixture(t)
		_, err := f.svc.PostMessage(ctx, roomID, senderID, " \n\t")
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("content too long", func(t *testing.T) {
		f := newChatFixture(t)
		_, err := f.svc.PostMessage(ctx, roomID, senderID, "hello world!")
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	// the store rejects the insert itself, so membership is never read
	// separately from the write
	rejections := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "unknown sender", repoErr: apperrors.ErrUserNotFound, wantErr: apperrors.ErrNotFound},
		{name: "unknown room", repoErr: apperrors.ErrRoomNotFound, wantErr: apperrors.ErrNotFound},
		{name: "sender outside the room", repoErr: apperrors.ErrNotParticipant, wantErr: apperrors.ErrForbidden},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture(t)
			f.messageRepo.EXPECT().Create(ctx, gomock.Any()).Return(tt.repoErr)

			_, err := f.svc.PostMessage(ctx, roomID, senderID, "hi")
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, tt.repoErr)
		})
	}
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New()

	t.Run("unknown room", func(t *testing.T) {
		f := newChatFixture(t)
		f.roomRepo.EXPECT().Exists(ctx, roomID).Return(false, nil)

		_, err := f.svc.ListMessages(ctx, roomID, domain.PageRequest{})
		require.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	})

	t.Run("default page size with next cursor", func(t *testing.T) {
		f := newChatFixture(t)
		f.roomRepo.EXPECT().Exists(ctx, roomID).Return(true, nil)
		f.messageRepo.EXPECT().ListPage(ctx, roomID, nil, 3).Return(seq(roomID, 1, 2, 3), nil)

		page, err := f.svc.ListMessages(ctx, roomID, domain.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Messages, 2)

		cursor, err := domain.DecodeCursor(page.NextCursor)
		require.NoError(t, err)
		require.Equal(t, int64(2), cursor.ID)
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		f := newChatFixture(t)
		after := domain.CursorOf(seq(roomID, 2)[0])
		f.roomRepo.EXPECT().Exists(ctx, roomID).Return(true, nil)
		f.messageRepo.EXPECT().ListPage(ctx, roomID, &after, 4).Return(seq(roomID, 3), nil)

		page, err := f.svc.ListMessages(ctx, roomID, domain.PageRequest{After: &after, Limit: 50})
		require.NoError(t, err)
		require.Len(t, page.Messages, 1)
		require.Empty(t, page.NextCursor)
	})
}

func TestChatService_Iterate(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New()
	all := seq(roomID, 1, 2, 3, 4, 5)

	f := newChatFixture(t)
	f.roomRepo.EXPECT().Exists(ctx, roomID).Return(true, nil).AnyTimes()
	f.messageRepo.EXPECT().ListPage(ctx, roomID, gomock.Any(), 3).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, after *domain.MessageCursor, limit int) ([]*domain.Message, error) {
			start := 0
			if after != nil {
				start = int(after.ID)
			}
			end := min(start+limit, len(all))
			return all[start:end], nil
		},
	).AnyTimes()

	collect := func() []int64 {
		var ids []int64
		for m, err := range f.svc.Iterate(ctx, roomID, 2) {
			require.NoError(t, err)
			ids = append(ids, m.ID)
		}
		return ids
	}

	require.Equal(t, []int64{1, 2, 3, 4, 5}, collect())
	// restartable
	require.Equal(t, []int64{1, 2, 3, 4, 5}, collect())

	// early exit stops fetching
	var first []int64
	for m, err := range f.svc.Iterate(ctx, roomID, 2) {
		require.NoError(t, err)
		first = append(first, m.ID)
		if len(first) == 1 {
			break
		}
	}
	require.Equal(t, []int64{1}, first)
}

func TestChatService_Iterate_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New()
	boom := errors.New("connection reset")

	f := newChatFixture(t)
	f.roomRepo.EXPECT().Exists(ctx, roomID).Return(true, nil)
	f.messageRepo.EXPECT().ListPage(ctx, roomID, nil, 3).Return(nil, boom)

	var errs []error
	for m, err := range f.svc.Iterate(ctx, roomID, 2) {
		require.Nil(t, m)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], boom)
}
