package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/internal/validation"
	"github.com/iudanet/celar/pkg/api"
)

// PostService создает, читает и удаляет посты
type PostService interface {
	Create(ctx context.Context, author string, content []byte) (*models.Post, error)
	List(ctx context.Context, limit int, order models.PostOrder) ([]*models.Post, error)
	Delete(ctx context.Context, postID int64, requester string) error
}

// LikeService - журнал лайков
type LikeService interface {
	Toggle(ctx context.Context, postID int64, username string) (models.LikeState, error)
	SetLiked(ctx context.Context, postID int64, username string, liked bool) (models.LikeState, error)
	State(ctx context.Context, postID int64, username string) (models.LikeState, error)
}

// PostHandler обрабатывает запросы к постам и лайкам
type PostHandler struct {
	logger       *slog.Logger
	posts        PostService
	likes        LikeService
	maxPostBytes int64
}

// NewPostHandler создает handler постов; maxPostBytes ограничивает тело POST /post
func NewPostHandler(logger *slog.Logger, posts PostService, likes LikeService, maxPostBytes int64) *PostHandler {
	return &PostHandler{
		logger:       logger,
		posts:        posts,
		likes:        likes,
		maxPostBytes: maxPostBytes,
	}
}

// Create обрабатывает POST /post, сырое тело запроса - содержимое поста
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxPostBytes))
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to read post body", err)
		return
	}

	post, err := h.posts.Create(ctx, username, content)
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to create post", err)
		return
	}

	WriteJSON(h.logger, w, api.PostCreatedResponse{
		ID:        post.ID,
		Author:    post.Author,
		CreatedAt: post.CreatedAt,
		Likes:     0,
	}, http.StatusCreated)
}

// List обрабатывает GET /posts?limit=&order=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	limit, err := validation.ParseLimit(query.Get("limit"), validation.DefaultPostsLimit)
	if err != nil {
		RespondError(ctx, h.logger, w, "invalid limit", err)
		return
	}

	order, err := validation.ParseOrder(query.Get("order"))
	if err != nil {
		RespondError(ctx, h.logger, w, "invalid order", err)
		return
	}

	posts, err := h.posts.List(ctx, limit, order)
	if err != nil {
		RespondError(ctx, h.logger, w, "failed to list posts", err)
		return
	}

	resp := lo.Map(posts, func(p *models.Post, _ int) api.FeedPost {
		return api.FeedPost{
			ID:        p.ID,
			Author:    p.Author,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			Likes:     p.Likes,
		}
	})

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// Delete обрабатывает DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(ctx, postID, username); err != nil {
		RespondError(ctx, h.logger, w, "failed to delete post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Like обрабатывает POST /posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.likeAction(w, r, func(ctx context.Context, postID int64, username string) (models.LikeState, error) {
		return h.likes.SetLiked(ctx, postID, username, true)
	})
}

// Unlike обрабатывает DELETE /posts/{id}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.likeAction(w, r, func(ctx context.Context, postID int64, username string) (models.LikeState, error) {
		return h.likes.SetLiked(ctx, postID, username, false)
	})
}

// Toggle обрабатывает POST /posts/{id}/like_toggle
func (h *PostHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.likeAction(w, r, h.likes.Toggle)
}

// Likes обрабатывает GET /posts/{id}/likes
func (h *PostHandler) Likes(w http.ResponseWriter, r *http.Request) {
	h.likeAction(w, r, h.likes.State)
}

type likeFunc func(ctx context.Context, postID int64, username string) (models.LikeState, error)

func (h *PostHandler) likeAction(w http.ResponseWriter, r *http.Request, action likeFunc) {
	ctx := r.Context()

	username, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	state, err := action(ctx, postID, username)
	if err != nil {
		RespondError(ctx, h.logger, w, "like operation failed", err)
		return
	}

	WriteJSON(h.logger, w, api.LikeStateResponse{
		PostID: postID,
		Likes:  state.Count,
		Liked:  state.Liked,
	}, http.StatusOK)
}

func (h *PostHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := GetUsername(r.Context())
	if !ok {
		RespondError(r.Context(), h.logger, w, "username not found in context", apperr.ErrMissingHeader)
		return "", false
	}
	return username, true
}

// postID разбирает {id} из пути; не целое число - 400
func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		RespondError(r.Context(), h.logger, w, "invalid post id",
			fmt.Errorf("%w: post id must be an integer, got %q", apperr.ErrValidation, raw))
		return 0, false
	}
	return id, true
}
