package service

import (
	"context"

	"github.com/iudanet/celar/internal/server/storage"
)

// Coins computes the number of likes received by a user's posts
type Coins struct {
	likes storage.LikeStorage
}

func NewCoins(likes storage.LikeStorage) *Coins {
	return &Coins{likes: likes}
}

// Coins is evaluated on every call, nothing is cached
func (c *Coins) Coins(ctx context.Context, username string) (int, error) {
	count, err := c.likes.CountReceivedLikes(ctx, username)
	if err != nil {
		return 0, translate("count coins", err)
	}
	return count, nil
}
