package service

import (
	"context"
	"log/slog"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/metrics"
	"github.com/iudanet/celar/internal/server/storage"
)

// Операции над лайками (label метрик)
const (
	OpToggle = "toggle"
	OpLike   = "like"
	OpUnlike = "unlike"
)

// Likes is the like ledger
type Likes struct {
	likes  storage.LikeStorage
	logger *slog.Logger
}

// NewLikes creates a like ledger
func NewLikes(likes storage.LikeStorage, logger *slog.Logger) *Likes {
	return &Likes{
		likes:  likes,
		logger: logger,
	}
}

// Toggle flips the like of username on postID
func (l *Likes) Toggle(ctx context.Context, postID int64, username string) (models.LikeState, error) {
	state, err := l.likes.ToggleLike(ctx, postID, username)
	if err != nil {
		return models.LikeState{}, translate("toggle like", err)
	}

	metrics.RecordLikeOperation(OpToggle)
	l.logger.DebugContext(ctx, "Like toggled", "post_id", postID, "username", username, "liked", state.Liked)

	return state, nil
}

// SetLiked makes the like present or absent; repeating a call changes nothing
func (l *Likes) SetLiked(ctx context.Context, postID int64, username string, liked bool) (models.LikeState, error) {
	state, err := l.likes.SetLike(ctx, postID, username, liked)
	if err != nil {
		return models.LikeState{}, translate("set like", err)
	}

	op := OpUnlike
	if liked {
		op = OpLike
	}
	metrics.RecordLikeOperation(op)

	return state, nil
}

// State reads the like count and whether username liked the post.
// Для несуществующего поста возвращается нулевое состояние
func (l *Likes) State(ctx context.Context, postID int64, username string) (models.LikeState, error) {
	state, err := l.likes.GetLikeState(ctx, postID, username)
	if err != nil {
		return models.LikeState{}, translate("get like state", err)
	}
	return state, nil
}
