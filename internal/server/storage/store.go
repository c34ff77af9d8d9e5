package storage

import "context"

// Store объединяет все хранилища сервера в одном бэкенде
type Store interface {
	UserStorage
	PostStorage
	LikeStorage
	Ping(ctx context.Context) error
	Close() error
}
