package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/middleware"
	"github.com/atinyakov/chat-prompt-store/internal/models"
)

var testClaims = &service.Claims{Usename: "alice", Dept: "sales"}

// newRequest builds a request carrying testClaims and, when id is not
// empty, a chi route parameter.
func newRequest(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = middleware.InjectClaims(req, testClaims)

	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"valid", "application/json", `{"title":"t","content":"c"}`, 0},
		{"wrong content type", "text/plain", `{"title":"t"}`, http.StatusUnsupportedMediaType},
		{"syntax error", "application/json", `{"title":}`, http.StatusBadRequest},
		{"truncated", "application/json", `{"title":"t"`, http.StatusBadRequest},
		{"wrong type", "application/json", `{"title":1}`, http.StatusBadRequest},
		{"unknown field", "application/json", `{"owner":"x"}`, http.StatusBadRequest},
		{"empty", "application/json", ``, http.StatusBadRequest},
		{"two objects", "application/json", `{"title":"a"}{"title":"b"}`, http.StatusBadRequest},
		{"too large", "application/json", `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			var dst models.UpdateRequest
			err := decodeJSONBody(rec, req, &dst)

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, "t", dst.Title)
				return
			}

			var mr *malformedRequest
			require.ErrorAs(t, err, &mr)
			assert.Equal(t, tt.wantStatus, mr.status)
		})
	}
}

func TestClaimsOrReject(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := claimsOrReject(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
