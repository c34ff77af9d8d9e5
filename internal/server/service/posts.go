package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/server/metrics"
	"github.com/iudanet/celar/internal/server/storage"
	"github.com/iudanet/celar/internal/validation"
)

// Posts stores and lists posts
type Posts struct {
	posts  storage.PostStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewPosts creates a post store
func NewPosts(posts storage.PostStorage, logger *slog.Logger) *Posts {
	return &Posts{
		posts:  posts,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores content on behalf of author; created_at is set here
func (p *Posts) Create(ctx context.Context, author string, content []byte) (*models.Post, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Author:    author,
		Content:   content,
		CreatedAt: p.now().UTC(),
	}

	if err := p.posts.CreatePost(ctx, post); err != nil {
		return nil, translate("create post", err)
	}

	metrics.RecordPostCreated()
	p.logger.InfoContext(ctx, "Post created", "post_id", post.ID, "author", author, "size", len(content))

	return post, nil
}

// List returns up to limit posts in the requested order
func (p *Posts) List(ctx context.Context, limit int, order models.PostOrder) ([]*models.Post, error) {
	if err := validation.ValidateLimit(limit); err != nil {
		return nil, err
	}

	posts, err := p.posts.ListPosts(ctx, limit, order)
	if err != nil {
		return nil, translate("list posts", err)
	}

	return posts, nil
}

// Delete removes a post owned by requester together with its likes
func (p *Posts) Delete(ctx context.Context, postID int64, requester string) error {
	if err := p.posts.DeletePost(ctx, postID, requester); err != nil {
		return translate("delete post", err)
	}

	metrics.RecordPostDeleted()
	p.logger.InfoContext(ctx, "Post deleted", "post_id", postID, "author", requester)

	return nil
}
