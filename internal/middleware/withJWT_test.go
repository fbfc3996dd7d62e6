package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/mocks"
)

func TestInjectClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &service.Claims{Usename: "alice", Dept: "sales"}

	got, ok := ClaimsFrom(InjectClaims(req, claims).Context())
	require.True(t, ok)
	require.Equal(t, claims, got)

	_, ok = ClaimsFrom(req.Context())
	require.False(t, ok)
}

func TestWithJWT(t *testing.T) {
	claims := &service.Claims{Usename: "alice", Dept: "sales"}

	capture := func(got **service.Claims) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got, _ = ClaimsFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("bearer header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuth := mocks.NewMockAuthIface(ctrl)
		mockAuth.EXPECT().ParseRawJWT("valid-token").Return(claims, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		var got *service.Claims
		WithJWT(mockAuth)(capture(&got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, claims, got)
	})

	t.Run("token cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuth := mocks.NewMockAuthIface(ctrl)
		cookie := &http.Cookie{Name: TokenCookie, Value: "cookie-token"}
		mockAuth.EXPECT().ParseClaims(gomock.Any()).Return(claims, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()

		var got *service.Claims
		WithJWT(mockAuth)(capture(&got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, claims, got)
	})

	t.Run("no token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuth := mocks.NewMockAuthIface(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called without a token")
		})
		WithJWT(mockAuth)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuth := mocks.NewMockAuthIface(ctrl)
		mockAuth.EXPECT().ParseRawJWT("bad").Return(nil, errors.New("signature is invalid"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called with an invalid token")
		})
		WithJWT(mockAuth)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
