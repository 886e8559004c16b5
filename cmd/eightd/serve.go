package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/api"
	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/middleware"
	"github.com/lalith-99/eightd/internal/observ"
	"github.com/lalith-99/eightd/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		return serve(ctx, a)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply pending migrations before serving (postgres only)")
}

func serve(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	if autoMigrate && a.database != nil {
		m, release, err := a.migrator()
		if err != nil {
			return err
		}
		applied, err := m.Up(ctx)
		release()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema ready", zap.Int("applied", len(applied)))
	}

	if cfg.SeedDemoData {
		if _, err := seed.Run(ctx, a.store, logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	readyChecks := map[string]func(context.Context) error{}
	var throttle auth.Throttle
	if cfg.RedisURL != "" {
		client, err := auth.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		throttle = auth.NewRedisThrottle(client, cfg.LoginMaxAttempts, cfg.LoginLockout)
		readyChecks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		logger.Info("login throttle enabled",
			zap.Int("max_attempts", cfg.LoginMaxAttempts),
			zap.Duration("lockout", cfg.LoginLockout),
		)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Store:              a.store,
		Auth:               auth.NewService(a.store.Users, throttle, logger),
		Metrics:            observ.NewMetrics(),
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:             logger,
		DefaultPerformerID: cfg.DefaultPerformerID,
		ReadyChecks:        readyChecks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting eightd",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
