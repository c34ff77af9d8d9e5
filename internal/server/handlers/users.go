package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/lo"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/validation"
	"github.com/iudanet/celar/pkg/api"
)

// UserService отдает профили и список пользователей
type UserService interface {
	Profile(ctx context.Context, username string) (*models.Profile, error)
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
}

// UserHandler обрабатывает запросы профилей
type UserHandler struct {
	logger *slog.Logger
	users  UserService
}

// NewUserHandler создает новый handler профилей
func NewUserHandler(logger *slog.Logger, users UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// Me обрабатывает GET /profile - профиль текущего пользователя
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := GetUsername(r.Context())
	if !ok {
		RespondError(r.Context(), h.logger, w, "username not found in context", apperr.ErrMissingHeader)
		return
	}

	h.writeProfile(w, r, username)
}

// Profile обрабатывает GET /profile/{username}
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	// Извлекаем username из path parameter (Go 1.22+)
	username := r.PathValue("username")
	// невалидное имя не могло быть зарегистрировано
	if err := validation.ValidateUsername(username); err != nil {
		RespondError(r.Context(), h.logger, w, "invalid username", apperr.ErrUnknownUser)
		return
	}

	h.writeProfile(w, r, username)
}

// List обрабатывает GET /users?limit=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := validation.ParseLimit(r.URL.Query().Get("limit"), validation.DefaultUsersLimit)
	if err != nil {
		RespondError(ctx, h.logger, w, "invalid limit", err)
		return
	}

	users, err := h.users.ListUsers(ctx, limit)
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to list users", err)
		return
	}

	resp := lo.Map(users, func(u *models.User, _ int) api.UserSummary {
		return api.UserSummary{Username: u.Username, Software: u.Software}
	})

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, username string) {
	ctx := r.Context()

	profile, err := h.users.Profile(ctx, username)
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to get profile", err)
		return
	}

	WriteJSON(h.logger, w, api.ProfileResponse{
		Username: profile.Username,
		Software: profile.Software,
		Coins:    profile.Coins,
	}, http.StatusOK)
}
