package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/iudanet/celar/internal/validation"
	pkgapi "github.com/iudanet/celar/pkg/api"
)

func (c *Cli) runPost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: missing file", ErrUsage)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read post content: %w", err)
	}
	if err := validation.ValidateContent(content); err != nil {
		return err
	}

	resp, err := c.apiClient.CreatePost(ctx, content)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Post %d published by %s at %s\n", resp.ID, resp.Author, resp.CreatedAt.Format(time.RFC3339))
	return nil
}

func (c *Cli) runFeed(ctx context.Context, args []string) error {
	fs := c.newFlagSet("feed")
	limit := fs.Int("limit", validation.DefaultPostsLimit, "maximum number of posts")
	newest := fs.Bool("newest", false, "newest posts first")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := validation.ValidateLimit(*limit); err != nil {
		return err
	}

	posts, err := c.apiClient.Feed(ctx, *limit, *newest)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		c.io.Println("No posts yet.")
		return nil
	}
	for _, p := range posts {
		c.printPost(p)
	}
	return nil
}

func (c *Cli) printPost(p pkgapi.FeedPost) {
	c.io.Printf("#%d by %s at %s, likes: %d\n", p.ID, p.Author, p.CreatedAt.Format(time.RFC3339), p.Likes)
	if utf8.Valid(p.Content) {
		c.io.Printf("  %s\n", p.Content)
	} else {
		c.io.Printf("  <binary, %d bytes>\n", len(p.Content))
	}
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	postID, err := parsePostID(args)
	if err != nil {
		return err
	}
	if err := c.apiClient.DeletePost(ctx, postID); err != nil {
		return err
	}
	c.io.Printf("✓ Post %d deleted\n", postID)
	return nil
}

func parsePostID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: missing post id", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: post id must be an integer, got %q", ErrUsage, args[0])
	}
	return id, nil
}
