package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)                 // GET   /api/orders?page=&limit=&status=
		r.Post("/", h.createOrder)               // POST  /api/orders
		r.Get("/recent", h.recentOrders)         // GET   /api/orders/recent?limit=
		r.Get("/{id}", h.getOrder)               // GET   /api/orders/{id}
		r.Patch("/{id}/status", h.updateStatus)  // PATCH /api/orders/{id}/status
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	q := ListQuery{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Status: r.URL.Query().Get("status"),
	}
	result, err := h.service.ListOrders(r.Context(), q)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) recentOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.service.RecentOrders(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []*Summary{}
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

// respondOrderError maps the status-engine error taxonomy onto HTTP codes:
// missing order → 404, business-rule violations → 400, the rest → 500.
func respondOrderError(w http.ResponseWriter, err error) {
	var stockErr *InsufficientStockError
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrCompletedReverted),
		errors.Is(err, ErrProductNotFound),
		errors.As(err, &stockErr):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "required") || strings.HasPrefix(msg, "invalid") ||
			strings.Contains(msg, "must be") {
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
