package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/server/handlers"
)

// TokenValidator проверяет access token и возвращает его subject
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.RespondError(ctx, logger, w, "missing Authorization header", apperr.ErrMissingHeader)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				handlers.RespondError(ctx, logger, w, "invalid Authorization header format", apperr.ErrMalformedToken)
				return
			}

			// Валидируем токен
			username, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				handlers.RespondError(ctx, logger, w, "invalid access token", err)
				return
			}

			logger.DebugContext(ctx, "User authenticated", "username", username)

			// Передаем запрос дальше с обновленным контекстом
			next.ServeHTTP(w, r.WithContext(handlers.WithUsername(ctx, username)))
		})
	}
}
