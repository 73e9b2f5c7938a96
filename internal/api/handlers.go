package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/naudiz/internal/apperr"
	"github.com/starford/naudiz/internal/archive"
	"github.com/starford/naudiz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
	cat archive.Catalog
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, cat archive.Catalog) *Handler {
	return &Handler{svc: svc, cat: cat}
}

// GetDocument handles GET /api/document.
func (h *Handler) GetDocument(w http.ResponseWriter, _ *http.Request) {
	doc := h.svc.Document()
	data, err := doc.Marshal()
	if err != nil {
		slog.Error("marshal document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		Title:    h.svc.Title(),
		Path:     h.svc.Path(),
		Cursor:   h.svc.Cursor(),
		Document: data,
	})
}

// NewDocument handles POST /api/document/new.
func (h *Handler) NewDocument(w http.ResponseWriter, _ *http.Request) {
	h.svc.NewDocument()
	w.WriteHeader(http.StatusNoContent)
}

// SaveDocument handles POST /api/document/save.
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.Save(req.Path); err != nil {
		slog.Error("save failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadDocument handles POST /api/document/load.
func (h *Handler) LoadDocument(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.Load(req.Path); err != nil {
		switch {
		case errors.Is(err, apperr.ErrBadFormat):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("unrecognized session format"))
		default:
			slog.Error("load failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		}
		return
	}
	h.GetDocument(w, r)
}

// SetCursor handles POST /api/cursor.
func (h *Handler) SetCursor(w http.ResponseWriter, r *http.Request) {
	var req CursorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.svc.SetCursor(req.Position)
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles POST /api/undo.
func (h *Handler) Undo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HistoryResponse{Applied: h.svc.Undo()})
}

// Redo handles POST /api/redo.
func (h *Handler) Redo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HistoryResponse{Applied: h.svc.Redo()})
}

// ListNotes handles GET /api/notes: the ordered note list for panel
// rendering.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	notes := h.svc.Notes()
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := h.svc.GetNote(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// InsertNote handles POST /api/notes. The request content answers the
// content prompt; empty content is a cancellation and yields 204 with
// no state change.
func (h *Handler) InsertNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req InsertNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Position != nil {
		h.svc.SetCursor(*req.Position)
	}

	prompt := noteservice.StaticPrompter{
		Text:      req.Content,
		Cancelled: strings.TrimSpace(req.Content) == "",
	}
	n, err := h.svc.InsertNote(r.Context(), prompt)
	if err != nil {
		slog.Error("insert note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// EditNote handles PUT /api/notes/{id}.
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req EditNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	prompt := noteservice.StaticPrompter{
		Text:      req.Content,
		Cancelled: req.Content == "",
	}
	n, err := h.svc.EditNote(r.Context(), id, prompt)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("edit note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NavigateNote handles GET /api/notes/{id}/reference: jump from a note
// back to its first inline marker.
func (h *Handler) NavigateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pos, err := h.svc.NavigateToReference(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, NavigateResponse{Position: pos})
}

// ListSessions handles GET /api/sessions.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	rows, total, err := h.cat.ListSessions(limit, offset)
	if err != nil {
		slog.Error("list sessions failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	items := make([]SessionListItem, len(rows))
	for i, row := range rows {
		items[i] = SessionListItem{
			Path:      row.Path,
			Title:     row.Title,
			Checksum:  row.Checksum,
			NoteCount: row.NoteCount,
			UpdatedAt: row.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, SessionListResponse{Sessions: items, Total: total})
}

// Search handles GET /api/search over archived note content.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	hits, err := h.cat.Search(query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{
			Session: hit.SessionPath,
			NoteID:  hit.NoteID,
			Number:  hit.Number,
			Snippet: hit.Snippet,
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
