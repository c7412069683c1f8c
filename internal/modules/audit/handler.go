package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the audit trail for the register admin view.
type Handler struct{ sink Sink }

func NewHandler(sink Sink) *Handler { return &Handler{sink: sink} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/audit", func(r chi.Router) {
		r.Get("/", h.list) // GET /api/v1/audit?session_id=&limit=
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.sink.List(r.Context(), sessionID, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond(w, http.StatusOK, entries)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
