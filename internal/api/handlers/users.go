package handlers

import (
	"log/slog"
	"net/http"

	"github.com/thisisamish/cashcard-api/internal/api/httpx"
	"github.com/thisisamish/cashcard-api/internal/services"
)

// UserHandler serves the admin-only user listing. Role enforcement
// happens in the middleware, not here.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("user list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}
