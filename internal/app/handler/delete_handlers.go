package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
)

// Enqueuer accepts ids for background soft deletion.
type Enqueuer interface {
	Enqueue(ctx context.Context, ids ...string) error
}

type DeleteHandler struct {
	service service.PromptStoreIface
	queue   Enqueuer
	logger  *zap.Logger
}

func NewDelete(s service.PromptStoreIface, q Enqueuer, l *zap.Logger) *DeleteHandler {
	return &DeleteHandler{
		service: s,
		queue:   q,
		logger:  l,
	}
}

// MarkAsDeleted soft deletes one prompt and returns the updated record.
func (h *DeleteHandler) MarkAsDeleted(res http.ResponseWriter, req *http.Request) {
	if _, ok := claimsOrReject(res, req); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.service.MarkAsDeleted(ctx, chi.URLParam(req, "id"))
	if err != nil {
		writeStoreError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, deleted, h.logger)
}

// DeleteBatch queues a JSON list of ids for soft deletion and answers 202
// without waiting for the worker.
func (h *DeleteHandler) DeleteBatch(res http.ResponseWriter, req *http.Request) {
	if _, ok := claimsOrReject(res, req); !ok {
		return
	}

	var ids []string
	if !decodeOrReject(res, req, &ids, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.queue.Enqueue(ctx, ids...); err != nil {
		h.logger.Error("cannot queue deletes", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	res.WriteHeader(http.StatusAccepted)
}
