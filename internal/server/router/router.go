// Package router wires handlers and middleware into the server's HTTP surface.
package router

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/celar/internal/server/handlers"
	"github.com/iudanet/celar/internal/server/metrics"
	"github.com/iudanet/celar/internal/server/middleware"
)

// Services - зависимости HTTP слоя
type Services struct {
	Credentials interface {
		handlers.CredentialService
		handlers.UserService
	}
	Posts  handlers.PostService
	Likes  handlers.LikeService
	Tokens interface {
		handlers.TokenIssuer
		middleware.TokenValidator
	}
	DB handlers.Pinger
}

// Options - параметры HTTP слоя
type Options struct {
	Version        string
	MaxPostBytes   int64
	Demo           bool
	MetricsEnabled bool
}

// New собирает ServeMux со всеми маршрутами и общей цепочкой middleware
func New(logger *slog.Logger, svc Services, opts Options) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, svc.Credentials, svc.Tokens)
	healthHandler := handlers.NewHealthHandler(logger, svc.DB, opts.Version, opts.Demo)
	userHandler := handlers.NewUserHandler(logger, svc.Credentials)
	postHandler := handlers.NewPostHandler(logger, svc.Posts, svc.Likes, opts.MaxPostBytes)

	auth := middleware.AuthMiddleware(logger, svc.Tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("GET /details", healthHandler.Details)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Маршруты, требующие bearer токен
	mux.Handle("GET /profile", protected(userHandler.Me))
	mux.Handle("GET /profile/{username}", protected(userHandler.Profile))
	mux.Handle("GET /users", protected(userHandler.List))
	mux.Handle("POST /post", protected(postHandler.Create))
	mux.Handle("GET /posts", protected(postHandler.List))
	mux.Handle("DELETE /posts/{id}", protected(postHandler.Delete))
	mux.Handle("POST /posts/{id}/like", protected(postHandler.Like))
	mux.Handle("DELETE /posts/{id}/like", protected(postHandler.Unlike))
	mux.Handle("POST /posts/{id}/like_toggle", protected(postHandler.Toggle))
	mux.Handle("GET /posts/{id}/likes", protected(postHandler.Likes))

	// Цепочка: request id -> recovery -> logging -> metrics -> mux
	var handler http.Handler = mux
	if opts.MetricsEnabled {
		handler = middleware.MetricsMiddleware(handler)
	}
	handler = middleware.LoggingWithSkip(logger, []string{"/health", "/metrics"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}
