// Package handler exposes the prompt store over HTTP. Handlers decode
// strict JSON bodies, take the caller identity from the request context
// and translate store errors into status codes.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/middleware"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

const maxBodyBytes = 1 << 20

// malformedRequest is a decoding failure with the status to answer with.
type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes exactly one JSON value from the body into dst,
// rejecting unknown fields and bodies over 1MB.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: "Content-Type header is not application/json"}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body contains badly-formed JSON"}
		case errors.As(err, &unmarshalTypeError):
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf("Request body contains unknown field %s", field)}
		case errors.Is(err, io.EOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must not be empty"}
		case errors.As(err, &maxBytesError):
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: "Request body must not be larger than 1MB"}
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must only contain a single JSON object"}
	}

	return nil
}

// decodeOrReject decodes the body and writes the error response itself
// when decoding fails. It reports whether the handler should continue.
func decodeOrReject(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	err := decodeJSONBody(w, r, dst)
	if err == nil {
		return true
	}

	var mr *malformedRequest
	if errors.As(err, &mr) {
		http.Error(w, mr.msg, mr.status)
		return false
	}

	logger.Error("cannot decode request body", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	return false
}

func claimsOrReject(w http.ResponseWriter, r *http.Request) (*service.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return claims, ok
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("cannot encode response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Warn("cannot write response", zap.Error(err))
	}
}

// writeStoreError maps an error from the prompt store onto a response.
func writeStoreError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrConflict), errors.Is(err, storage.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error("prompt store failure", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
