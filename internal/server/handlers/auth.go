package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/pkg/api"
)

// maxAuthBodyBytes ограничивает тело register/login
const maxAuthBodyBytes = 64 << 10

// CredentialService регистрирует пользователей и проверяет пароли
type CredentialService interface {
	Register(ctx context.Context, username, password string, software []string) error
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer выпускает access токены
type TokenIssuer interface {
	IssueDefault(subject string) (string, time.Time, error)
	TTL() time.Duration
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger      *slog.Logger
	credentials CredentialService
	tokens      TokenIssuer
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, credentials CredentialService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		credentials: credentials,
		tokens:      tokens,
	}
}

// Register обрабатывает POST /register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(ctx, h.logger, w, "failed to decode register request", err)
		return
	}

	if err := h.credentials.Register(ctx, req.Username, req.Password, req.Software); err != nil {
		RespondError(ctx, h.logger, w, "registration failed", err)
		return
	}

	resp := api.RegisterResponse{
		Message: "User registered successfully",
	}

	WriteJSON(h.logger, w, resp, http.StatusCreated)
}

// Login обрабатывает POST /login
// Аутентификация пользователя и выдача access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(ctx, h.logger, w, "failed to decode login request", err)
		return
	}

	user, err := h.credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		RespondError(ctx, h.logger, w, "login failed", err)
		return
	}

	accessToken, _, err := h.tokens.IssueDefault(user.Username)
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to issue access token", err)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("username", user.Username))

	resp := api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   api.TokenTypeBearer,
		ExpiresIn:   int64(h.tokens.TTL().Seconds()),
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// decodeJSON читает тело запроса с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apperr.Validation(fmt.Errorf("invalid request body: %w", err))
	}

	return nil
}
