package api

import (
	"net/http"

	"github.com/okian/extrack/pkg/logger"
)

// UsersHandler handles /api/users.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleCreateUser handles POST /api/users.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_user"
	f, err := readFields(w, r)
	if err != nil {
		rejectInvalid(w, "create_user", op, err)
		return
	}
	req := newCreateUserRequest(f)
	if err := req.validate(); err != nil {
		rejectInvalid(w, "create_user", op, err)
		return
	}

	u, err := h.deps.CreateUser(r.Context(), req.Username)
	if err != nil {
		logger.Get().Error(r.Context(), "create user failed", logger.Error(Wrap(op, err)))
		writeText(w, http.StatusInternalServerError, msgCreateUser)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleListUsers handles GET /api/users.
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_users"
	users, err := h.deps.ListUsers(r.Context())
	if err != nil {
		logger.Get().Error(r.Context(), "list users failed", logger.Error(Wrap(op, err)))
		writeText(w, http.StatusInternalServerError, msgFetchUsers)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
