package storage

import "errors"

var (
	// ErrAuthNotFound - локальной сессии нет
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed - хранилище уже закрыто
	ErrStorageClosed = errors.New("storage is closed")
)
