package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/metrics"
	"github.com/iudanet/celar/internal/server/storage"
	"github.com/iudanet/celar/internal/validation"
)

// PasswordHasher хеширует и проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Credentials registers users and verifies their passwords
type Credentials struct {
	users     storage.UserStorage
	hasher    PasswordHasher
	coins     *Coins
	logger    *slog.Logger
	now       func() time.Time
	dummyHash string
}

// NewCredentials creates a credential store.
// Заранее считает хеш-заглушку, чтобы Verify для неизвестного пользователя
// выполнял ту же работу, что и для существующего
func NewCredentials(users storage.UserStorage, coins *Coins, hasher PasswordHasher, logger *slog.Logger) (*Credentials, error) {
	dummyHash, err := hasher.Hash("celar-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Credentials{
		users:     users,
		hasher:    hasher,
		coins:     coins,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// Register validates input and creates the user.
// Уникальность username обеспечивает только первичный ключ хранилища
func (c *Credentials) Register(ctx context.Context, username, password string, software []string) (err error) {
	defer func() { metrics.RecordRegistration(metrics.Result(err)) }()

	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	tags, err := validation.NormalizeSoftware(software)
	if err != nil {
		return err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Software:     tags,
		CreatedAt:    c.now().UTC(),
	}

	if err := c.users.CreateUser(ctx, user); err != nil {
		return translate("create user", err)
	}

	c.logger.InfoContext(ctx, "User registered", "username", username)

	return nil
}

// Verify checks the password and returns the user.
// Неизвестный пользователь и неверный пароль неразличимы для вызывающего
func (c *Credentials) Verify(ctx context.Context, username, password string) (user *models.User, err error) {
	defer func() { metrics.RecordLogin(metrics.Result(err)) }()

	user, err = c.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, translate("get user", err)
		}

		// Тратим то же время, что и на проверку настоящего хеша
		_, _ = c.hasher.Verify(password, c.dummyHash)
		return nil, apperr.ErrInvalidCredentials
	}

	ok, err := c.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperr.ErrInvalidCredentials
	}

	return user, nil
}

// Profile returns public user data together with the coin count
func (c *Credentials) Profile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := c.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, translate("get user", err)
	}

	coins, err := c.coins.Coins(ctx, username)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		Username: user.Username,
		Software: user.Software,
		Coins:    coins,
	}, nil
}

// ListUsers returns up to limit users ordered by username
func (c *Credentials) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	if err := validation.ValidateLimit(limit); err != nil {
		return nil, err
	}

	users, err := c.users.ListUsers(ctx, limit)
	if err != nil {
		return nil, translate("list users", err)
	}

	return users, nil
}
