package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/middleware"
	"github.com/atinyakov/chat-prompt-store/internal/models"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

// SessionKeyHeader carries the deployment's session key to POST /api/session.
const SessionKeyHeader = "X-Session-Key"

type PostHandler struct {
	service    service.PromptStoreIface
	auth       service.AuthIface
	sessionKey []byte
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewPost builds the POST handlers. An empty sessionKey disables token
// issuance.
func NewPost(s service.PromptStoreIface, a service.AuthIface, sessionKey string, l *zap.Logger) *PostHandler {
	return &PostHandler{
		service:    s,
		auth:       a,
		sessionKey: []byte(sessionKey),
		logger:     l,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Session issues a token for the posted identity and sets it as a cookie.
// The caller must present the deployment's session key, normally an
// identity gateway in front of the service.
func (h *PostHandler) Session(res http.ResponseWriter, req *http.Request) {
	if len(h.sessionKey) == 0 {
		http.Error(res, "session issuance is disabled", http.StatusForbidden)
		return
	}

	presented := []byte(req.Header.Get(SessionKeyHeader))
	if subtle.ConstantTimeCompare(presented, h.sessionKey) != 1 {
		h.logger.Warn("session request with a wrong key", zap.String("remote", req.RemoteAddr))
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var body models.SessionRequest
	if !decodeOrReject(res, req, &body, h.logger) {
		return
	}

	if body.Usename == "" || body.Dept == "" {
		http.Error(res, "usename and dept are required", http.StatusBadRequest)
		return
	}

	token, err := h.auth.BuildJWTString(body.Usename, body.Dept)
	if err != nil {
		h.logger.Error("cannot issue token", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(res, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(service.TokenExp),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(res, http.StatusOK, models.TokenResponse{Token: token}, h.logger)
}

// AddPrompt stores a new prompt owned by the caller.
func (h *PostHandler) AddPrompt(res http.ResponseWriter, req *http.Request) {
	claims, ok := claimsOrReject(res, req)
	if !ok {
		return
	}

	var body models.PromptRequest
	if !decodeOrReject(res, req, &body, h.logger) {
		return
	}

	record := storage.PromptRecord{
		ID:        body.ID,
		Title:     body.Title,
		Content:   body.Content,
		Dept:      claims.Dept,
		Usename:   claims.Usename,
		CreatedAt: h.now().UTC(),
		SortOrder: body.SortOrder,
	}
	if record.ID == "" {
		record.ID = h.newID()
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.AddPrompt(ctx, record); err != nil {
		writeStoreError(res, err, h.logger)
		return
	}

	h.logger.Info("prompt added", zap.String("id", record.ID), zap.String("dept", record.Dept))
	writeJSON(res, http.StatusCreated, record, h.logger)
}
