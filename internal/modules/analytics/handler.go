package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the analytics read endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/products", h.productFacets) // GET /api/analytics/products
		r.Get("/advanced", h.advanced)      // GET /api/analytics/advanced?range=7d
		r.Get("/overview", h.overview)      // GET /api/analytics/overview?range=7d
	})
	r.Get("/api/overview", h.productOverview) // GET /api/overview?lowStock=5
}

func (h *Handler) productFacets(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ProductFacets(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, report)
}

func (h *Handler) productOverview(w http.ResponseWriter, r *http.Request) {
	threshold := 5
	if raw := r.URL.Query().Get("lowStock"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			threshold = n
		}
	}
	report, err := h.service.ProductOverview(r.Context(), threshold)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, report)
}

func (h *Handler) advanced(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Advanced(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, report)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Overview(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, report)
}

func respond(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// Analytics reads only fail on store trouble; malformed ranges degrade to
// the default instead of erroring.
func respondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
