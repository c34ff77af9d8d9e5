// Package service implements the domain operations of the server:
// credentials, posts, the like ledger and the coin aggregate.
package service

import (
	"errors"
	"fmt"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/server/storage"
)

// translate переводит ошибки хранилища в таксономию apperr.
// Неизвестные ошибки оборачиваются с контекстом op и уходят наверх как внутренние
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrUserAlreadyExists):
		return apperr.ErrUsernameTaken
	case errors.Is(err, storage.ErrUserNotFound):
		return apperr.ErrUnknownUser
	case errors.Is(err, storage.ErrPostNotFound):
		return apperr.ErrUnknownPost
	case errors.Is(err, storage.ErrNotPostAuthor):
		return apperr.ErrNotOwner
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
