package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/cuppa/internal/tracker"
)

// NewRouter creates a chi router with all API routes mounted.
// notifier may be nil. sseHandler, if non-nil, is mounted at GET /events
// inside the auth group.
func NewRouter(tr *tracker.Tracker, notifier Notifier, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(tr, notifier)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/today", h.Today)
	r.Post("/cups", h.AddCup)
	r.Delete("/cups/last", h.PopCup)
	r.Put("/cups/last", h.ChangeCup)
	r.Post("/dec", h.Dec)
	r.Post("/reset", h.Reset)

	r.Get("/week", h.Week)
	r.Get("/dates", h.Dates)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
