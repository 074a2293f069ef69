package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "chat_store/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// constraintErrors maps schema constraint names to domain errors.
var constraintErrors = map[string]error{
	"chat_rooms_room_type_project_key":       apperrors.ErrRoomAlreadyExists,
	"chat_rooms_project_id_fkey":             apperrors.ErrProjectNotFound,
	"chat_room_participants_room_id_fkey":    apperrors.ErrRoomNotFound,
	"chat_room_participants_user_id_fkey":    apperrors.ErrUserNotFound,
	"messages_room_id_fkey":                  apperrors.ErrRoomNotFound,
	"messages_sender_id_fkey":                apperrors.ErrUserNotFound,
	"message_seen_receipts_message_id_fkey":  apperrors.ErrMessageNotFound,
	"message_seen_receipts_user_id_fkey":     apperrors.ErrUserNotFound,
	"chat_rooms_room_type_check":             apperrors.Validation("unknown room_type"),
	"chat_rooms_project_presence_check":      apperrors.Validation("project_id must be set exactly for PROJECT rooms"),
	"message_seen_receipts_message_user_key": apperrors.ErrConstraintViolation,
}

// translate turns constraint violations into domain errors. The second
// result reports whether err was recognised.
func translate(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err, false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
	default:
		return err, false
	}
	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped, true
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.ErrConstraintViolation, true
	case pgForeignKeyViolation:
		return apperrors.ErrNotFound, true
	default:
		return apperrors.ErrValidation, true
	}
}
