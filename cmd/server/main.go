package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/celar/internal/config"
	"github.com/iudanet/celar/internal/crypto"
	"github.com/iudanet/celar/internal/logging"
	"github.com/iudanet/celar/internal/server/jwt"
	"github.com/iudanet/celar/internal/server/router"
	"github.com/iudanet/celar/internal/server/service"
	"github.com/iudanet/celar/internal/server/storage"
	"github.com/iudanet/celar/internal/server/storage/postgres"
	"github.com/iudanet/celar/internal/server/storage/sqlite"
)

const readHeaderTimeout = 10 * time.Second

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "celar-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		return nil
	}

	// Без секрета подписи сервер не стартует
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	coins := service.NewCoins(store)
	credentials, err := service.NewCredentials(store, coins, crypto.NewPasswordHasher(crypto.DefaultParams), logger)
	if err != nil {
		return err
	}

	handler := router.New(logger, router.Services{
		Credentials: credentials,
		Posts:       service.NewPosts(store, logger),
		Likes:       service.NewLikes(store, logger),
		Tokens:      tokens,
		DB:          store,
	}, router.Options{
		Version:        Version,
		Demo:           cfg.Demo,
		MaxPostBytes:   cfg.MaxPostBytes,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Celar server starting",
			slog.String("addr", cfg.Addr),
			slog.String("storage", cfg.StorageDriver),
			slog.String("version", Version))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")

	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseDSN)
	default:
		return sqlite.New(ctx, cfg.DatabaseDSN)
	}
}

func printVersion() {
	fmt.Printf("Celar Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
