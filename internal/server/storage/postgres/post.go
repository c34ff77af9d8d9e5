package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

// CreatePost inserts a post and assigns its ID
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query, post.Author, post.Content, post.CreatedAt).Scan(&post.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// ListPosts returns up to limit posts with their like counts
func (s *Storage) ListPosts(ctx context.Context, limit int, order models.PostOrder) ([]*models.Post, error) {
	direction := "ASC"
	if order == models.OrderNewest {
		direction = "DESC"
	}

	query := `
		SELECT p.id, p.author, p.content, p.created_at,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)
		FROM posts p
		ORDER BY p.id ` + direction + `
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Post, error) {
		post := &models.Post{}
		err := row.Scan(&post.ID, &post.Author, &post.Content, &post.CreatedAt, &post.Likes)
		return post, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}

	return posts, nil
}

// DeletePost removes the post; likes go with it in the same transaction
func (s *Storage) DeletePost(ctx context.Context, postID int64, requester string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var author string
		err := tx.QueryRow(ctx, `SELECT author FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&author)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		if author != requester {
			return storage.ErrNotPostAuthor
		}

		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, postID); err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		return nil
	})
}

// lockPost блокирует строку поста до конца транзакции
func lockPost(ctx context.Context, tx pgx.Tx, postID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrPostNotFound
		}
		return fmt.Errorf("failed to lock post: %w", err)
	}
	return nil
}
