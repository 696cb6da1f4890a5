package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"Folio/internal/api/middleware"
	"Folio/internal/api/routes"
	"Folio/internal/api/stream"
	"Folio/internal/config"
	"Folio/internal/core/comments"
	"Folio/internal/core/feed"
	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
	postgresRepo "Folio/internal/db/postgres"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the streaming server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger, !skipMigrations)
		},
	}

	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations at startup")
	return serveCmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	logger.Info("connected to database")

	if migrate {
		if err := postgresRepo.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
			return err
		}
		logger.Info("migrations completed successfully")
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	authMiddleware := middleware.NewJWTAuthMiddleware(cfg.JWTSecret, logger)

	// Stream calls are limited per caller, after authentication
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer rateLimiter.Stop()

	// Initialize repositories and services
	postRepo := postgresRepo.NewPostRepository(db)
	commentRepo := postgresRepo.NewCommentRepository(db)
	voteRepo := postgresRepo.NewVoteRepository(db)
	poolRepo := postgresRepo.NewPoolRepository(db)

	postService := posts.NewPostService(postRepo, cfg.PageMaxSize, logger)
	commentService := comments.NewCommentService(commentRepo, postService, cfg.PageMaxSize, logger)
	voteService := votes.NewService(voteRepo, logger)
	feedService := feed.NewFeedService(poolRepo, voteService, cfg.StackMaxSize, logger)

	routes.RegisterHealthRoutes(r)
	routes.RegisterPostRoutes(r, postService, authMiddleware, rateLimiter, logger)
	routes.RegisterCommentRoutes(r, commentService, authMiddleware, rateLimiter, logger)
	routes.RegisterFeedRoutes(r, feedService, authMiddleware, rateLimiter, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelling ctx closes every open stream with 1001
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("folio starting", "port", cfg.Port, "page_max_size", cfg.PageMaxSize, "stack_max_size", cfg.StackMaxSize)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := stream.Wait(shutdownCtx); err != nil {
		return fmt.Errorf("drain streams: %w", err)
	}
	return nil
}
