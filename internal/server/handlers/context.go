package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// UsernameKey ключ для хранения username в контексте
const UsernameKey contextKey = "username"

// WithUsername возвращает контекст с username аутентифицированного пользователя
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}
