package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, cat archive.Catalog, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, cat)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Session document.
	r.Get("/document", h.GetDocument)
	r.Post("/document/new", h.NewDocument)
	r.Post("/document/save", h.SaveDocument)
	r.Post("/document/load", h.LoadDocument)
	r.Post("/cursor", h.SetCursor)
	r.Post("/undo", h.Undo)
	r.Post("/redo", h.Redo)

	// Notes CRUD + navigation.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.InsertNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.EditNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/reference", h.NavigateNote)

	// Archive.
	r.Get("/sessions", h.ListSessions)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
