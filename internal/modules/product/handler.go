package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/serdarakin/shoply-backend/internal/modules/auth"
	"github.com/serdarakin/shoply-backend/internal/modules/user"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the catalog routes. Reads require any authenticated
// user; writes require admin or manager.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)    // GET  /api/products
		r.Get("/{id}", h.getProduct)  // GET  /api/products/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(user.RoleAdmin, user.RoleManager))
			r.Post("/", h.createProduct)       // POST   /api/products
			r.Patch("/{id}", h.updateProduct)  // PATCH  /api/products/{id}
			r.Delete("/{id}", h.deleteProduct) // DELETE /api/products/{id}
		})
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondProductError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	raw := map[string]string{}
	for _, k := range []string{"page", "limit", "q", "status", "category",
		"minPrice", "maxPrice", "minStock", "maxStock", "tags", "sortBy", "sortOrder"} {
		raw[k] = r.URL.Query().Get(k)
	}
	result, err := h.service.ListProducts(r.Context(), BuildListQuery(raw))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondProductError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSKUExists):
		respondError(w, http.StatusConflict, err.Error())
	default:
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "must be") || strings.HasPrefix(msg, "invalid") {
			code = http.StatusBadRequest
		}
		respondError(w, code, msg)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
