// Package server assembles the HTTP router of the prompt store.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/handler"
	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/middleware"
)

// Init wires handlers and middleware into a chi router. Everything under
// /api except the session endpoint requires a token; the session endpoint
// requires sessionKey and is off when it is empty.
func Init(store service.PromptStoreIface, auth service.AuthIface, queue handler.Enqueuer, sessionKey string, logger *zap.Logger) *chi.Mux {
	get := handler.NewGet(store, logger)
	post := handler.NewPost(store, auth, sessionKey, logger)
	put := handler.NewPut(store, logger)
	del := handler.NewDelete(store, queue, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGzip)

	r.Get("/ping", get.PingDB)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", post.Session)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithJWT(auth))

			r.Route("/prompts", func(r chi.Router) {
				r.Get("/", get.UserPrompts)
				r.Post("/", post.AddPrompt)
				r.Delete("/", del.DeleteBatch)
				r.Get("/company", get.CompanyPrompts)
				r.Put("/sort-order", put.UpdateSortOrders)
				r.Put("/{id}", put.UpdateItem)
				r.Delete("/{id}", del.MarkAsDeleted)
			})
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
