package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

// ToggleLike flips the like for (postID, username) in one transaction
func (s *Storage) ToggleLike(ctx context.Context, postID int64, username string) (models.LikeState, error) {
	var state models.LikeState

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ? AND username = ?`, postID, username)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		removed, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		// Лайка не было - ставим
		if removed == 0 {
			if err := insertLike(ctx, tx, postID, username, false); err != nil {
				return err
			}
		}

		state, err = likeState(ctx, tx, postID, username)
		return err
	})

	if err != nil {
		return models.LikeState{}, err
	}

	return state, nil
}

// SetLike makes the like present or absent, repeated calls are no-ops
func (s *Storage) SetLike(ctx context.Context, postID int64, username string, liked bool) (models.LikeState, error) {
	var state models.LikeState

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}

		if liked {
			if err := insertLike(ctx, tx, postID, username, true); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ? AND username = ?`, postID, username); err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
		}

		var err error
		state, err = likeState(ctx, tx, postID, username)
		return err
	})

	if err != nil {
		return models.LikeState{}, err
	}

	return state, nil
}

// GetLikeState returns like count and caller's like flag
func (s *Storage) GetLikeState(ctx context.Context, postID int64, username string) (models.LikeState, error) {
	return likeState(ctx, s.db, postID, username)
}

// CountReceivedLikes counts likes on all posts authored by username
func (s *Storage) CountReceivedLikes(ctx context.Context, username string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM likes l
		JOIN posts p ON p.id = l.post_id
		WHERE p.author = ?
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count received likes: %w", err)
	}

	return count, nil
}

// insertLike вставляет строку лайка; ifAbsent превращает повтор в no-op
func insertLike(ctx context.Context, tx *sql.Tx, postID int64, username string, ifAbsent bool) error {
	query := `INSERT INTO likes (post_id, username, created_at) VALUES (?, ?, ?)`
	if ifAbsent {
		query += ` ON CONFLICT (post_id, username) DO NOTHING`
	}

	if _, err := tx.ExecContext(ctx, query, postID, username, time.Now().UTC()); err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert like: %w", err)
	}

	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func likeState(ctx context.Context, q queryRower, postID int64, username string) (models.LikeState, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN username = ? THEN 1 ELSE 0 END), 0)
		FROM likes
		WHERE post_id = ?
	`

	var state models.LikeState
	var mine int
	if err := q.QueryRowContext(ctx, query, username, postID).Scan(&state.Count, &mine); err != nil {
		return models.LikeState{}, fmt.Errorf("failed to get like state: %w", err)
	}
	state.Liked = mine > 0

	return state, nil
}
