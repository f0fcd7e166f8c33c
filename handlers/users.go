package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/models"
	"github.com/kevinaaaquil/library/backend/store"
)

type UsersHandler struct {
	Users *store.UserStore
}

// List serves GET /api/admin/users, newest first when the store can order.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.GetUsers(r.Context())
	if err != nil {
		serverError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateRole serves PATCH /api/admin/users/{uid}/role. An admin cannot
// demote themselves.
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	uid := chi.URLParam(r, "uid")
	if caller, _ := middleware.UserIDFromContext(r.Context()); caller == uid && req.Role != models.RoleAdmin {
		writeError(w, http.StatusBadRequest, "cannot remove your own admin role")
		return
	}
	err := h.Users.UpdateUserRole(r.Context(), uid, req.Role)
	if errors.Is(err, docstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		serverError(w, r, "update role", err)
		return
	}
	user, err := h.Users.GetUser(r.Context(), uid)
	if err != nil {
		serverError(w, r, "update role", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
