package storage

import (
	"context"

	"github.com/iudanet/celar/internal/models"
)

// PostStorage defines interface for post persistence
type PostStorage interface {
	// CreatePost inserts a post and assigns post.ID.
	// Returns ErrUserNotFound if the author doesn't exist
	CreatePost(ctx context.Context, post *models.Post) error

	// ListPosts returns up to limit posts in the given order with their like counts
	ListPosts(ctx context.Context, limit int, order models.PostOrder) ([]*models.Post, error)

	// DeletePost removes the post and every like referencing it in one transaction.
	// Returns ErrPostNotFound or ErrNotPostAuthor, in which case nothing is changed
	DeletePost(ctx context.Context, postID int64, requester string) error
}
