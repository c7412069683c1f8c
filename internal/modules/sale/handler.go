package sale

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes checkout endpoints to the register UI.
type Handler struct {
	engine   *Engine
	recorder Recorder
}

func NewHandler(engine *Engine, recorder Recorder) *Handler {
	return &Handler{engine: engine, recorder: recorder}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Post("/submit", h.submit) // POST /api/v1/sales/submit
		r.Get("/", h.list)          // GET  /api/v1/sales?session_id=&limit=
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var fin Finalization
	if err := json.NewDecoder(r.Body).Decode(&fin); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.engine.Submit(r.Context(), fin) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": h.engine.Err()})
		return
	}
	respond(w, http.StatusCreated, map[string]bool{"recorded": true})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sales, err := h.recorder.ListBySession(r.Context(), sessionID, limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sales == nil {
		sales = []*Sale{}
	}
	respond(w, http.StatusOK, sales)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
