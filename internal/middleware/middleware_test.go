package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat_store/internal/mocks"
	"chat_store/internal/service"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

const (
	testSecret = "test-secret"
	testIssuer = "auth-service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func clock() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID) Claims {
	return Claims{
		UserID:      userID.String(),
		DisplayName: "Ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, *mocks.MockDirectoryRepository) {
	ctrl := gomock.NewController(t)
	directoryRepo := mocks.NewMockDirectoryRepository(ctrl)
	audit := service.NewAuditService(mocks.NewMockAuditRepository(ctrl), clock, logger.Nop())
	directory := service.NewDirectoryService(directoryRepo, audit, clock, logger.Nop())

	auth := NewAuthMiddleware(testSecret, testIssuer, directory, logger.Nop())

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		userID, ok := UserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, userID.String())
	})
	return r, directoryRepo
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token provisions the caller", func(t *testing.T) {
		r, directoryRepo := newAuthRouter(t)
		directoryRepo.EXPECT().UserExists(gomock.Any(), userID).Return(false, nil)
		directoryRepo.EXPECT().UpsertUser(gomock.Any(), gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(userID)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, userID.String(), w.Body.String())
	})

	expired := validClaims(userID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	foreign := validClaims(userID)
	foreign.Issuer = "someone-else"
	badSubject := validClaims(userID)
	badSubject.UserID = "not-a-uuid"

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", validClaims(userID))},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired)},
		{name: "foreign issuer", header: "Bearer " + signToken(t, testSecret, foreign)},
		{name: "malformed user id", header: "Bearer " + signToken(t, testSecret, badSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newAuthRouter(t)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("directory failure", func(t *testing.T) {
		r, directoryRepo := newAuthRouter(t)
		directoryRepo.EXPECT().UserExists(gomock.Any(), userID).Return(false, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(userID)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireInternalToken(t *testing.T) {
	r := gin.New()
	r.GET("/internal", RequireInternalToken("s3cret"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for token, want := range map[string]int{
		"s3cret": http.StatusNoContent,
		"wrong":  http.StatusUnauthorized,
		"":       http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/internal", nil)
		req.Header.Set(InternalTokenHeader, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code, "token %q", token)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.Nop()))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.ErrRoomNotFound) })
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperrors.ErrRoomAlreadyExists) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(fmt.Errorf("pq: password leaked")) })

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/missing", http.StatusNotFound, `{"error":"room not found"}`},
		{"/conflict", http.StatusConflict, `{"error":"constraint violation: room already exists for this type and project"}`},
		{"/boom", http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.code, w.Code, tc.path)
		require.JSONEq(t, tc.body, w.Body.String(), tc.path)
	}
}

func TestRateLimitMiddleware_Limit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRateLimitRepository(ctrl)
	limiter := NewRateLimitMiddleware(service.NewRateLimitService(repo, logger.Nop()), logger.Nop())

	r := gin.New()
	r.POST("/post", limiter.Limit("post", 2), func(c *gin.Context) { c.Status(http.StatusCreated) })

	gomock.InOrder(
		repo.EXPECT().Increment(gomock.Any(), "post:192.0.2.1", time.Minute).Return(int64(1), nil),
		repo.EXPECT().Increment(gomock.Any(), "post:192.0.2.1", time.Minute).Return(int64(2), nil),
		repo.EXPECT().Increment(gomock.Any(), "post:192.0.2.1", time.Minute).Return(int64(3), nil),
		repo.EXPECT().Increment(gomock.Any(), "post:192.0.2.1", time.Minute).Return(int64(0), context.DeadlineExceeded),
	)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/post", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send()
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = send()
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusTooManyRequests, send().Code)

	// limiter outage fails open
	require.Equal(t, http.StatusCreated, send().Code)
}
