// Package apperr содержит таксономию ошибок приложения.
//
// Каждая конкретная ошибка оборачивает одну из категорий, поэтому вызывающий код
// может проверять как вид (errors.Is(err, ErrExpiredToken)), так и категорию
// (errors.Is(err, ErrAuthentication)). HTTP слой сопоставляет категории со статусами.
package apperr

import (
	"errors"
	"fmt"
)

// Категории ошибок
var (
	// ErrAuthentication - вызывающий не аутентифицирован
	ErrAuthentication = errors.New("authentication failed")
	// ErrConflict - операция нарушает ограничение уникальности
	ErrConflict = errors.New("conflict")
	// ErrNotFound - запрошенный объект не существует
	ErrNotFound = errors.New("not found")
	// ErrAuthorization - вызывающий аутентифицирован, но не имеет прав
	ErrAuthorization = errors.New("forbidden")
	// ErrValidation - некорректные входные данные
	ErrValidation = errors.New("validation failed")
)

// Authentication
var (
	ErrMissingHeader      = fmt.Errorf("%w: missing authorization header", ErrAuthentication)
	ErrMalformedToken     = fmt.Errorf("%w: malformed token", ErrAuthentication)
	ErrUnverifiedToken    = fmt.Errorf("%w: token signature not verified", ErrAuthentication)
	ErrExpiredToken       = fmt.Errorf("%w: token expired", ErrAuthentication)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthentication)
)

// Conflict
var (
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
)

// NotFound
var (
	ErrUnknownUser = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrUnknownPost = fmt.Errorf("%w: post not found", ErrNotFound)
)

// Authorization
var (
	ErrNotOwner = fmt.Errorf("%w: only the author can do this", ErrAuthorization)
)

// Validation
var (
	ErrOutOfRange = fmt.Errorf("%w: value out of range", ErrValidation)
)

// Validation оборачивает произвольную ошибку валидации в категорию ErrValidation
// с сохранением исходного сообщения.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
