package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

// ToggleLike flips the like for (postID, username).
// Строка поста блокируется, поэтому переключения одного поста идут по очереди
func (s *Storage) ToggleLike(ctx context.Context, postID int64, username string) (models.LikeState, error) {
	var state models.LikeState

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, postID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND username = $2`, postID, username)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		if tag.RowsAffected() == 0 {
			if err := insertLike(ctx, tx, postID, username); err != nil {
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

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, postID); err != nil {
			return err
		}

		if liked {
			if err := insertLike(ctx, tx, postID, username); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND username = $2`, postID, username); err != nil {
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
	return likeState(ctx, s.pool, postID, username)
}

// CountReceivedLikes counts likes on all posts authored by username
func (s *Storage) CountReceivedLikes(ctx context.Context, username string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM likes l
		JOIN posts p ON p.id = l.post_id
		WHERE p.author = $1
	`

	var count int
	if err := s.pool.QueryRow(ctx, query, username).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count received likes: %w", err)
	}

	return count, nil
}

func insertLike(ctx context.Context, tx pgx.Tx, postID int64, username string) error {
	query := `
		INSERT INTO likes (post_id, username)
		VALUES ($1, $2)
		ON CONFLICT (post_id, username) DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, postID, username); err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert like: %w", err)
	}

	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func likeState(ctx context.Context, q rowQuerier, postID int64, username string) (models.LikeState, error) {
	query := `
		SELECT COUNT(*), COALESCE(BOOL_OR(username = $2), false)
		FROM likes
		WHERE post_id = $1
	`

	var state models.LikeState
	if err := q.QueryRow(ctx, query, postID, username).Scan(&state.Count, &state.Liked); err != nil {
		return models.LikeState{}, fmt.Errorf("failed to get like state: %w", err)
	}

	return state, nil
}
