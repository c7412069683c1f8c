package legacyimport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the legacy CSV import endpoint. The request body is the
// raw CSV stream; the target session travels as a query parameter.
type Handler struct {
	importer *Importer
	guard    func(http.Handler) http.Handler
}

func NewHandler(importer *Importer, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{importer: importer, guard: guard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/legacy", func(r chi.Router) {
		// destructive bulk write, manager token required
		r.With(h.guard).Post("/import", h.importCSV) // POST /api/v1/legacy/import?session_id=
	})
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	report, err := h.importer.Import(r.Context(), r.Body, sessionID)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, report)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
