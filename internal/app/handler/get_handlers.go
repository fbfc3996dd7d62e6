package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

const requestTimeout = 3 * time.Second

type GetHandler struct {
	service service.PromptStoreIface
	logger  *zap.Logger
}

func NewGet(s service.PromptStoreIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
	}
}

// UserPrompts lists the caller's own active prompts.
func (h *GetHandler) UserPrompts(res http.ResponseWriter, req *http.Request) {
	claims, ok := claimsOrReject(res, req)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	prompts, err := h.service.QueryPrompt(ctx, claims.Dept, claims.Usename)
	h.writeList(res, prompts, err)
}

// CompanyPrompts lists every active prompt of the caller's department.
func (h *GetHandler) CompanyPrompts(res http.ResponseWriter, req *http.Request) {
	claims, ok := claimsOrReject(res, req)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	prompts, err := h.service.QueryPromptCompany(ctx, claims.Dept)
	h.writeList(res, prompts, err)
}

func (h *GetHandler) writeList(res http.ResponseWriter, prompts []storage.PromptRecord, err error) {
	if err != nil {
		writeStoreError(res, err, h.logger)
		return
	}

	if len(prompts) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(res, http.StatusOK, prompts, h.logger)
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Error("ping failed", zap.Error(err))
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}
