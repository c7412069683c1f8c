package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Identity is the register's own configured identity. Open requests that
// omit the register or site fall back to it, so a kiosk UI only has to send
// the operator and the drawer float.
type Identity struct {
	RegisterID string
	SiteID     string
}

// Handler exposes session lifecycle endpoints to the register UI.
type Handler struct {
	manager  *Manager
	identity Identity
}

func NewHandler(manager *Manager, identity Identity) *Handler {
	return &Handler{manager: manager, identity: identity}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", h.current)                  // GET    /api/v1/session
		r.Post("/open", h.open)                // POST   /api/v1/session/open
		r.Post("/refresh", h.refresh)          // POST   /api/v1/session/refresh
		r.Post("/{id}/close", h.close)         // POST   /api/v1/session/{id}/close
		r.Post("/{id}/resume", h.resume)       // POST   /api/v1/session/{id}/resume
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Current()
	if s == nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var p OpenParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if p.RegisterID == "" {
		p.RegisterID = h.identity.RegisterID
	}
	if p.SiteID == "" {
		p.SiteID = h.identity.SiteID
	}
	s, ok := h.manager.Open(r.Context(), p)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": h.manager.Err()})
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var data *CloseData
	if r.ContentLength > 0 {
		data = &CloseData{}
		if err := json.NewDecoder(r.Body).Decode(data); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if !h.manager.Close(r.Context(), id, data) {
		respond(w, http.StatusConflict, map[string]string{"error": h.manager.Err()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"closed": true})
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.manager.Resume(r.Context(), id) {
		respond(w, http.StatusConflict, map[string]string{"error": h.manager.Err()})
		return
	}
	respond(w, http.StatusOK, h.manager.Current())
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Refresh(r.Context()) {
		respond(w, http.StatusBadGateway, map[string]string{"error": h.manager.Err()})
		return
	}
	s := h.manager.Current()
	if s == nil {
		respond(w, http.StatusNoContent, nil)
		return
	}
	respond(w, http.StatusOK, s)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
