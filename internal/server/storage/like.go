package storage

import (
	"context"

	"github.com/iudanet/celar/internal/models"
)

// LikeStorage defines interface for the (post, user) like set
type LikeStorage interface {
	// ToggleLike removes the like if present, otherwise inserts it.
	// Runs as one transaction. Returns ErrPostNotFound for unknown post
	ToggleLike(ctx context.Context, postID int64, username string) (models.LikeState, error)

	// SetLike makes the like present (liked=true) or absent (liked=false).
	// Repeating the same call is a no-op. Returns ErrPostNotFound for unknown post
	SetLike(ctx context.Context, postID int64, username string, liked bool) (models.LikeState, error)

	// GetLikeState returns like count and whether username likes the post.
	// Unknown post yields zero state, not an error
	GetLikeState(ctx context.Context, postID int64, username string) (models.LikeState, error)

	// CountReceivedLikes counts likes on all posts authored by username
	CountReceivedLikes(ctx context.Context, username string) (int, error)
}
