package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes user management HTTP endpoints.
type Handler struct {
	service Service

	// callerID extracts the authenticated user's id from the request; it is
	// injected so this package does not depend on the auth module.
	callerID func(*http.Request) string
}

func NewHandler(service Service, callerID func(*http.Request) string) *Handler {
	return &Handler{service: service, callerID: callerID}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.listUsers)          // GET    /api/users?page=&limit=&q=&role=&sortBy=&sortOrder=
		r.Get("/{id}", h.getUser)        // GET    /api/users/{id}
		r.Patch("/{id}", h.updateUser)   // PATCH  /api/users/{id}
		r.Delete("/{id}", h.deleteUser)  // DELETE /api/users/{id}
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	raw := map[string]string{}
	for _, k := range []string{"page", "limit", "q", "role", "sortBy", "sortOrder"} {
		raw[k] = r.URL.Query().Get(k)
	}
	result, err := h.service.ListUsers(r.Context(), BuildListQuery(raw))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondUserError(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteUser(r.Context(), h.callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondUserError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSelfDelete):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		code := http.StatusInternalServerError
		msg := err.Error()
		if msg == "at least one field required" || strings.HasPrefix(msg, "invalid") {
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
