package validation

import (
	"fmt"
	"strconv"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
)

// Границы для списков
const (
	MinLimit          = 1
	MaxLimit          = 200
	DefaultUsersLimit = 50
	DefaultPostsLimit = 20
)

// ValidateLimit проверяет, что limit лежит в [MinLimit, MaxLimit]
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d, got %d", apperr.ErrOutOfRange, MinLimit, MaxLimit, limit)
	}
	return nil
}

// ParseLimit разбирает query параметр limit.
// Пустая строка означает значение по умолчанию def.
func ParseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", apperr.ErrValidation)
	}

	if err := ValidateLimit(limit); err != nil {
		return 0, err
	}

	return limit, nil
}

// ParseOrder разбирает query параметр order; пустое значение - порядок вставки
func ParseOrder(raw string) (models.PostOrder, error) {
	switch models.PostOrder(raw) {
	case "", models.OrderOldest:
		return models.OrderOldest, nil
	case models.OrderNewest:
		return models.OrderNewest, nil
	default:
		return "", fmt.Errorf("%w: order must be %q or %q", apperr.ErrValidation, models.OrderOldest, models.OrderNewest)
	}
}
