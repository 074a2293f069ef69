package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat_store/internal/domain"
	"chat_store/internal/mocks"
	apperrors "chat_store/pkg/errors"
)

func newRoomServiceUnderTest(t *testing.T) (RoomService, *mocks.MockRoomRepository, *mocks.MockAuditRepository) {
	ctrl := gomock.NewController(t)
	roomRepo := mocks.NewMockRoomRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	audit := NewAuditService(auditRepo, fixedClock, testLog)
	return NewRoomService(roomRepo, audit, fixedClock, testLog), roomRepo, auditRepo
}

func TestRoomService_Create(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	other := uuid.New()
	projectID := uuid.New()

	t.Run("project room includes the creator", func(t *testing.T) {
		svc, roomRepo, auditRepo := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, room *domain.ChatRoom) error {
			require.Equal(t, domain.RoomTypeProject, room.RoomType)
			require.Equal(t, projectID, *room.ProjectID)
			require.Equal(t, []uuid.UUID{actor, other}, room.Participants)
			require.Equal(t, fixedNow, room.CreatedAt)
			return nil
		})
		auditRepo.EXPECT().CreateLog(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *domain.AuditLog) error {
			require.Equal(t, domain.EventTypeRoomCreated, log.EventType)
			require.Equal(t, domain.ActorRoleUser, log.ActorRole)
			require.Equal(t, actor, *log.ActorUserID)
			return nil
		})

		room, err := svc.Create(ctx, actor, domain.RoomTypeProject, &projectID, []uuid.UUID{other, actor})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, room.ID)
	})

	t.Run("duplicate project room", func(t *testing.T) {
		svc, roomRepo, _ := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().Create(ctx, gomock.Any()).Return(apperrors.ErrRoomAlreadyExists)

		_, err := svc.Create(ctx, actor, domain.RoomTypeProject, &projectID, nil)
		require.ErrorIs(t, err, apperrors.ErrConstraintViolation)
	})

	t.Run("invalid room type never reaches the store", func(t *testing.T) {
		svc, _, _ := newRoomServiceUnderTest(t)

		_, err := svc.Create(ctx, actor, domain.RoomType("GROUP"), nil, nil)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("audit failure does not fail the call", func(t *testing.T) {
		svc, roomRepo, auditRepo := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		auditRepo.EXPECT().CreateLog(ctx, gomock.Any()).Return(errors.New("db down"))

		_, err := svc.Create(ctx, actor, domain.RoomTypePrivate, nil, []uuid.UUID{other})
		require.NoError(t, err)
	})
}

func TestRoomService_List_NormalizesPaging(t *testing.T) {
	ctx := context.Background()
	svc, roomRepo, _ := newRoomServiceUnderTest(t)
	userID := uuid.New()

	roomRepo.EXPECT().ListByParticipant(ctx, userID, 20, 0).Return([]*domain.ChatRoom{}, nil)

	rooms, err := svc.List(ctx, userID, 0, -5)
	require.NoError(t, err)
	require.Empty(t, rooms)
}

func TestRoomService_Participants(t *testing.T) {
	ctx := context.Background()
	actor, roomID, userID := uuid.New(), uuid.New(), uuid.New()

	t.Run("first add is audited", func(t *testing.T) {
		svc, roomRepo, auditRepo := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().AddParticipant(ctx, roomID, userID).Return(true, nil)
		auditRepo.EXPECT().CreateLog(ctx, gomock.Any()).Return(nil)

		added, err := svc.AddParticipant(ctx, actor, roomID, userID)
		require.NoError(t, err)
		require.True(t, added)
	})

	t.Run("repeated add is a no-op", func(t *testing.T) {
		svc, roomRepo, _ := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().AddParticipant(ctx, roomID, userID).Return(false, nil)

		added, err := svc.AddParticipant(ctx, actor, roomID, userID)
		require.NoError(t, err)
		require.False(t, added)
	})

	t.Run("remove from unknown room", func(t *testing.T) {
		svc, roomRepo, _ := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().RemoveParticipant(ctx, roomID, userID).Return(false, apperrors.ErrRoomNotFound)

		_, err := svc.RemoveParticipant(ctx, actor, roomID, userID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctx := context.Background()
	actor, roomID := uuid.New(), uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc, roomRepo, auditRepo := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().Delete(ctx, roomID).Return(nil)
		auditRepo.EXPECT().CreateLog(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, log *domain.AuditLog) error {
			require.Equal(t, domain.EventTypeRoomDeleted, log.EventType)
			require.Equal(t, roomID, *log.RoomID)
			return nil
		})

		require.NoError(t, svc.Delete(ctx, actor, roomID))
	})

	t.Run("missing", func(t *testing.T) {
		svc, roomRepo, _ := newRoomServiceUnderTest(t)

		roomRepo.EXPECT().Delete(ctx, roomID).Return(apperrors.ErrRoomNotFound)

		require.ErrorIs(t, svc.Delete(ctx, actor, roomID), apperrors.ErrRoomNotFound)
	})
}

func TestRoomService_Authorize(t *testing.T) {
	ctx := context.Background()
	roomID, userID := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		member  bool
		repoErr error
		wantErr error
	}{
		{name: "member", member: true},
		{name: "outsider", member: false, wantErr: apperrors.ErrNotParticipant},
		{name: "unknown room", repoErr: apperrors.ErrRoomNotFound, wantErr: apperrors.ErrRoomNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, roomRepo, _ := newRoomServiceUnderTest(t)
			roomRepo.EXPECT().IsParticipant(ctx, roomID, userID).Return(tt.member, tt.repoErr)

			err := svc.Authorize(ctx, roomID, userID)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
