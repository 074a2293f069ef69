package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	apperrors "chat_store/pkg/errors"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		want   error
		mapped bool
	}{
		{
			name:   "duplicate project room",
			err:    &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "chat_rooms_room_type_project_key"},
			want:   apperrors.ErrRoomAlreadyExists,
			mapped: true,
		},
		{
			name:   "unknown sender",
			err:    fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "messages_sender_id_fkey"}),
			want:   apperrors.ErrUserNotFound,
			mapped: true,
		},
		{
			name:   "unknown message on receipt",
			err:    &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "message_seen_receipts_message_id_fkey"},
			want:   apperrors.ErrMessageNotFound,
			mapped: true,
		},
		{
			name:   "unnamed unique violation",
			err:    &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "something_else"},
			want:   apperrors.ErrConstraintViolation,
			mapped: true,
		},
		{
			name:   "check violation",
			err:    &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "chat_rooms_room_type_check"},
			want:   apperrors.ErrValidation,
			mapped: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := translate(tc.err)
			require.Equal(t, tc.mapped, ok)
			require.ErrorIs(t, got, tc.want)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		orig := errors.New("conn closed")
		got, ok := translate(orig)
		require.False(t, ok)
		require.Same(t, orig, got)

		serialization := &pgconn.PgError{Code: "40001"}
		got, ok = translate(serialization)
		require.False(t, ok)
		require.Equal(t, error(serialization), got)
	})
}
