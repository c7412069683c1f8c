package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the pending-sale cart to the register UI.
type Handler struct{ store *Store }

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.list)                // GET    /api/v1/cart
		r.Post("/items", h.add)           // POST   /api/v1/cart/items
		r.Put("/items/{id}", h.update)    // PUT    /api/v1/cart/items/{id}
		r.Delete("/items/{id}", h.remove) // DELETE /api/v1/cart/items/{id}
		r.Put("/note", h.setNote)         // PUT    /api/v1/cart/note
		r.Delete("/", h.clear)            // DELETE /api/v1/cart
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]interface{}{
		"items": h.store.Items(),
		"note":  h.store.Note(),
		"total": h.store.Total(),
	})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var p AddParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	item := h.store.Add(p)
	respond(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var p UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.store.Update(id, p) {
		respond(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	h.store.Remove(id)
	respond(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *Handler) setNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.store.SetNote(body.Note)
	respond(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	respond(w, http.StatusOK, map[string]bool{"cleared": true})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
