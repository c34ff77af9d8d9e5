package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/celar/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check и запросы метаданных сервера
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	version string
	demo    bool
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, db Pinger, version string, demo bool) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		db:      db,
		version: version,
		demo:    demo,
	}
}

// Health обрабатывает GET /health
// Health check endpoint для мониторинга, 503 если БД недоступна
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database ping failed", slog.Any("error", err))
		resp.Status = "unavailable"
		WriteJSON(h.logger, w, resp, http.StatusServiceUnavailable)
		return
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// Details обрабатывает GET /details
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	WriteJSON(h.logger, w, api.DetailsResponse{
		Version: h.version,
		Demo:    h.demo,
	}, http.StatusOK)
}
