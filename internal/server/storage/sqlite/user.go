package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	software, err := encodeSoftware(user.Software)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (username, password_hash, software, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		software,
		user.CreatedAt,
	)

	if err != nil {
		// Проверяем на duplicate username
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password_hash, software, created_at
		FROM users
		WHERE username = ?
	`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListUsers returns up to limit users ordered by username
func (s *Storage) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT username, password_hash, software, created_at
		FROM users
		ORDER BY username
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var software string

	if err := row.Scan(&user.Username, &user.PasswordHash, &software, &user.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(software), &user.Software); err != nil {
		return nil, fmt.Errorf("failed to decode software: %w", err)
	}
	if user.Software == nil {
		user.Software = []string{}
	}

	return user, nil
}

// encodeSoftware хранит набор тегов как JSON массив
func encodeSoftware(software []string) (string, error) {
	if software == nil {
		software = []string{}
	}
	data, err := json.Marshal(software)
	if err != nil {
		return "", fmt.Errorf("failed to encode software: %w", err)
	}
	return string(data), nil
}
