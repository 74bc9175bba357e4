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

	"github.com/jmoiron/sqlx"

	"github.com/sumire/teltube/internal/config"
	"github.com/sumire/teltube/internal/handler"
	"github.com/sumire/teltube/internal/logging"
	"github.com/sumire/teltube/internal/mediahost"
	"github.com/sumire/teltube/internal/password"
	"github.com/sumire/teltube/internal/repository"
	"github.com/sumire/teltube/internal/service"
	"github.com/sumire/teltube/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	if cfg.NeedsDatabase() {
		db, err = repository.Open(ctx, cfg.DatabaseURL, repository.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		slog.Info("database connected")

		if cfg.MigrateOnStart {
			if err := repository.Migrate(ctx, db); err != nil {
				return err
			}
			slog.Info("migrations applied")
		}
	}

	var tokens *token.Issuer
	if cfg.JWTSecret != "" {
		tokens = token.NewIssuer(cfg.JWTSecret,
			token.WithTTL(cfg.TokenTTL),
			token.WithLeeway(cfg.TokenLeeway),
		)
	}

	routes := handler.Routes{UploadBodyLimit: cfg.UploadMaxBody}

	if cfg.Enabled(config.ServiceAuth) {
		hasher, err := password.NewHasher(password.Scheme(cfg.PasswordScheme))
		if err != nil {
			return fmt.Errorf("password hasher: %w", err)
		}

		authSvc := service.NewAuthService(repository.NewUserRepository(db), tokens, hasher, service.AuthConfig{
			GoogleClientID:     cfg.GoogleClientID,
			GoogleClientSecret: cfg.GoogleClientSecret,
			GoogleRedirectURL:  cfg.GoogleRedirectURL,
		})
		routes.Auth = handler.NewAuthHandler(authSvc)
	}

	if cfg.Enabled(config.ServiceVideos) {
		videoSvc := service.NewVideoService(repository.NewVideoRepository(db), service.VideoConfig{
			StrictViewNotFound: cfg.StrictViewNotFound,
		})

		// A nil *token.Issuer in the interface would not compare equal to nil.
		var verifier handler.TokenVerifier
		if cfg.RequireAuthForCreate {
			verifier = tokens
		}
		routes.Videos = handler.NewVideoHandler(videoSvc, verifier)
	}

	if cfg.Enabled(config.ServiceUpload) {
		stream := mediahost.NewCloudflareStream(mediahost.Config{
			BaseURL:   cfg.CloudflareAPIBase,
			AccountID: cfg.CloudflareAccountID,
			APIToken:  cfg.CloudflareAPIToken,
			Timeout:   cfg.UploadTimeout,
		})
		routes.Upload = handler.NewUploadHandler(service.NewUploadService(stream))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.NewServer(routes),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "services", cfg.Services)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
