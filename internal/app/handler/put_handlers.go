package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/models"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

type PutHandler struct {
	service service.PromptStoreIface
	logger  *zap.Logger
}

func NewPut(s service.PromptStoreIface, l *zap.Logger) *PutHandler {
	return &PutHandler{
		service: s,
		logger:  l,
	}
}

// UpdateItem overwrites the title and content of one prompt.
func (h *PutHandler) UpdateItem(res http.ResponseWriter, req *http.Request) {
	if _, ok := claimsOrReject(res, req); !ok {
		return
	}

	var body models.UpdateRequest
	if !decodeOrReject(res, req, &body, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	updated, err := h.service.UpdateItem(ctx, chi.URLParam(req, "id"), body.Title, body.Content)
	if err != nil {
		writeStoreError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, updated, h.logger)
}

// UpdateSortOrders applies a list of id/sortOrder pairs in order.
func (h *PutHandler) UpdateSortOrders(res http.ResponseWriter, req *http.Request) {
	if _, ok := claimsOrReject(res, req); !ok {
		return
	}

	var body []models.SortOrderRequest
	if !decodeOrReject(res, req, &body, h.logger) {
		return
	}

	updates := make([]storage.SortOrderUpdate, 0, len(body))
	for _, item := range body {
		updates = append(updates, storage.SortOrderUpdate{ID: item.ID, SortOrder: item.SortOrder})
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.UpdateSortOrders(ctx, updates); err != nil {
		writeStoreError(res, err, h.logger)
		return
	}

	h.logger.Debug("sort orders updated", zap.Int("count", len(updates)))
	res.WriteHeader(http.StatusNoContent)
}
