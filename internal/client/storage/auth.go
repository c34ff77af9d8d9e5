package storage

import (
	"context"
	"time"
)

// AuthStorage хранит локальную сессию клиента.
// Токен хранится как есть: сервер не поддерживает отзыв, logout только удаляет запись.
type AuthStorage interface {
	// SaveAuth перезаписывает текущую сессию
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth возвращает ErrAuthNotFound если сессии нет
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth удаляет сессию (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated - есть сессия и токен не истек
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData - сохраненная сессия
type AuthData struct {
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ServerURL   string    `json:"server_url"` // сервер, выдавший токен
}

// Expired сообщает, истек ли токен к моменту now
func (a *AuthData) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
