package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/storage"
)

// CreatePost inserts a post and assigns its ID
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := userExists(ctx, tx, post.Author); err != nil {
			return err
		}

		query := `
			INSERT INTO posts (author, content, created_at)
			VALUES (?, ?, ?)
		`

		result, err := tx.ExecContext(ctx, query, post.Author, post.Content, post.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrUserNotFound
			}
			return fmt.Errorf("failed to insert post: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get post id: %w", err)
		}
		post.ID = id

		return nil
	})
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
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0, limit)
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Author, &post.Content, &post.CreatedAt, &post.Likes); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// DeletePost removes the post and its likes in one transaction
func (s *Storage) DeletePost(ctx context.Context, postID int64, requester string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var author string
		err := tx.QueryRowContext(ctx, `SELECT author FROM posts WHERE id = ?`, postID).Scan(&author)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		if author != requester {
			return storage.ErrNotPostAuthor
		}

		// Сначала лайки, потом сам пост: лайков-сирот быть не должно
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ?`, postID); err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, postID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		return nil
	})
}

func userExists(ctx context.Context, tx *sql.Tx, username string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to check user: %w", err)
	}
	return nil
}

func postExists(ctx context.Context, tx *sql.Tx, postID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrPostNotFound
		}
		return fmt.Errorf("failed to check post: %w", err)
	}
	return nil
}
