package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/service"
)

// UserHandler serves user references and their radars.
type UserHandler struct {
	users  service.UserService
	radars service.RadarService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, radars service.RadarService) *UserHandler {
	return &UserHandler{users: users, radars: radars}
}

// CreateUser handles POST /api/users. A new user gets a personal radar
// provisioned in the background.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := parseOptionalUUID("id", req.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.NewUserInput{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// GetUser handles GET /api/users/{username}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// ListRadars handles GET /api/users/{username}/radars.
func (h *UserHandler) ListRadars(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	radars, err := h.radars.ListOwned(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list radars")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, radarsToResponse(radars))
}
