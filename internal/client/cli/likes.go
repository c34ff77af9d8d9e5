package cli

import (
	"context"

	pkgapi "github.com/iudanet/celar/pkg/api"
)

type likeCall func(ctx context.Context, postID int64) (*pkgapi.LikeStateResponse, error)

func (c *Cli) runLike(ctx context.Context, args []string) error {
	return c.likeCommand(ctx, args, c.apiClient.Like)
}

func (c *Cli) runUnlike(ctx context.Context, args []string) error {
	return c.likeCommand(ctx, args, c.apiClient.Unlike)
}

func (c *Cli) runToggle(ctx context.Context, args []string) error {
	return c.likeCommand(ctx, args, c.apiClient.Toggle)
}

func (c *Cli) runLikes(ctx context.Context, args []string) error {
	return c.likeCommand(ctx, args, c.apiClient.Likes)
}

func (c *Cli) likeCommand(ctx context.Context, args []string, call likeCall) error {
	postID, err := parsePostID(args)
	if err != nil {
		return err
	}
	state, err := call(ctx, postID)
	if err != nil {
		return err
	}
	c.io.Printf("Post %d: likes %d, liked by you: %t\n", state.PostID, state.Likes, state.Liked)
	return nil
}
