package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/pkg/api"
)

// StatusFor сопоставляет категорию ошибки HTTP статусу.
// Дубликат username отдается как 400, а не 409
func StatusFor(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON отправляет JSON ответ
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет JSON ответ с ошибкой
func WriteError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	WriteJSON(logger, w, resp, statusCode)
}

// RespondError логирует err и отправляет клиенту соответствующий статус.
// Детали внутренних ошибок клиенту не раскрываются
func RespondError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, msg, slog.Any("error", err))
		WriteError(logger, w, "internal server error", status)
		return
	}

	logger.WarnContext(ctx, msg, slog.Any("error", err))

	message := err.Error()
	if status == http.StatusRequestEntityTooLarge {
		message = "request body too large"
	}
	WriteError(logger, w, message, status)
}
