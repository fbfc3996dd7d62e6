package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/middleware"
	"github.com/atinyakov/chat-prompt-store/internal/mocks"
	"github.com/atinyakov/chat-prompt-store/internal/models"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const testSessionKey = "deploy-key"

func newTestPost(s *mocks.MockPromptStoreIface, a *mocks.MockAuthIface) *PostHandler {
	h := NewPost(s, a, testSessionKey, zap.NewNop())
	h.now = func() time.Time { return fixedNow }
	h.newID = func() string { return "generated-id" }
	return h
}

func TestPostHandler_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthIface(ctrl)
	mockAuth.EXPECT().BuildJWTString("alice", "sales").Return("signed", nil)

	h := newTestPost(mocks.NewMockPromptStoreIface(ctrl), mockAuth)
	req := newRequest(http.MethodPost, "/api/session", `{"usename":"alice","dept":"sales"}`, "")
	req.Header.Set(SessionKeyHeader, testSessionKey)
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed", resp.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestPostHandler_SessionRequiresIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newTestPost(mocks.NewMockPromptStoreIface(ctrl), mocks.NewMockAuthIface(ctrl))
	req := newRequest(http.MethodPost, "/api/session", `{"usename":"alice"}`, "")
	req.Header.Set(SessionKeyHeader, testSessionKey)
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostHandler_SessionRequiresKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		wantStatus int
	}{
		{name: "no key presented", configured: testSessionKey, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", configured: testSessionKey, presented: "guess", wantStatus: http.StatusUnauthorized},
		{name: "issuance disabled", presented: "anything", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// BuildJWTString must not be reached
			h := NewPost(mocks.NewMockPromptStoreIface(ctrl), mocks.NewMockAuthIface(ctrl), tt.configured, zap.NewNop())
			req := newRequest(http.MethodPost, "/api/session", `{"usename":"mallory","dept":"finance"}`, "")
			if tt.presented != "" {
				req.Header.Set(SessionKeyHeader, tt.presented)
			}
			rec := httptest.NewRecorder()
			h.Session(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestPostHandler_AddPrompt(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRecord *storage.PromptRecord
		storeErr   error
		wantStatus int
	}{
		{
			name: "generated id",
			body: `{"title":"Summarise","content":"Summarise this","sortOrder":3}`,
			wantRecord: &storage.PromptRecord{
				ID: "generated-id", Title: "Summarise", Content: "Summarise this",
				Dept: "sales", Usename: "alice", CreatedAt: fixedNow, SortOrder: 3,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "client id",
			body: `{"id":"p-1","title":"Translate","content":"To French"}`,
			wantRecord: &storage.PromptRecord{
				ID: "p-1", Title: "Translate", Content: "To French",
				Dept: "sales", Usename: "alice", CreatedAt: fixedNow,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate id",
			body: `{"id":"p-1","title":"Translate","content":"To French"}`,
			wantRecord: &storage.PromptRecord{
				ID: "p-1", Title: "Translate", Content: "To French",
				Dept: "sales", Usename: "alice", CreatedAt: fixedNow,
			},
			storeErr:   fmt.Errorf("%w: id p-1", storage.ErrConflict),
			wantStatus: http.StatusConflict,
		},
		{
			name: "empty title is stored as sent",
			body: `{"id":"p-2","content":"no title"}`,
			wantRecord: &storage.PromptRecord{
				ID: "p-2", Content: "no title",
				Dept: "sales", Usename: "alice", CreatedAt: fixedNow,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "dept is not client controlled",
			body:       `{"title":"x","dept":"hr"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockPromptStoreIface(ctrl)
			if tt.wantRecord != nil {
				mockService.EXPECT().AddPrompt(gomock.Any(), *tt.wantRecord).Return(tt.storeErr)
			}

			h := newTestPost(mockService, mocks.NewMockAuthIface(ctrl))
			rec := httptest.NewRecorder()
			h.AddPrompt(rec, newRequest(http.MethodPost, "/api/prompts", tt.body, ""))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var got storage.PromptRecord
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, *tt.wantRecord, got)
			}
		})
	}
}
