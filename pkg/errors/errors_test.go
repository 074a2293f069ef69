package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"room not found", ErrRoomNotFound, http.StatusNotFound},
		{"wrapped user not found", fmt.Errorf("post message: %w", ErrUserNotFound), http.StatusNotFound},
		{"duplicate room", ErrRoomAlreadyExists, http.StatusConflict},
		{"validation", Validation("content must not be empty"), http.StatusBadRequest},
		{"not participant", ErrNotParticipant, http.StatusForbidden},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"api error", NewAPIError("gone", http.StatusGone), http.StatusGone},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, HTTPStatusFromError(tc.err))
		})
	}
}

func TestSentinelsWrapTaxonomy(t *testing.T) {
	req := require.New(t)
	req.ErrorIs(ErrMessageNotFound, ErrNotFound)
	req.ErrorIs(ErrProjectNotFound, ErrNotFound)
	req.ErrorIs(ErrRoomAlreadyExists, ErrConstraintViolation)
	req.ErrorIs(Validation("room_type %q", "GROUP"), ErrValidation)
	req.Equal(`validation error: room_type "GROUP"`, Validation("room_type %q", "GROUP").Error())
}

func TestPublicMessage(t *testing.T) {
	req := require.New(t)
	req.Equal("internal server error", PublicMessage(fmt.Errorf("dial tcp: refused")))
	req.Equal("room not found", PublicMessage(ErrRoomNotFound))
}
