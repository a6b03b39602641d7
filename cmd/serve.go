package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"order-upload/internal/data/repository"
	"order-upload/internal/usecase"
	"order-upload/internal/wire"
	"order-upload/pkg/database"
	"order-upload/pkg/storage"
	"order-upload/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		config, logger, err := boot()
		if err != nil {
			return err
		}
		defer logger.Sync()

		logger.Info("Starting application",
			zap.String("app", config.App.Name),
			zap.String("port", config.App.Port),
			zap.Bool("debug", config.App.Debug),
		)

		db, err := bootDB(cmd, config, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		sessions, closeSessions, err := newSessionStore(ctx, config, db, logger)
		if err != nil {
			return err
		}
		defer closeSessions()

		store, err := storage.New(ctx, config.Storage)
		if err != nil {
			return err
		}
		logger.Info("Object store ready", zap.String("driver", config.Storage.Driver))

		repos := repository.NewRepository(db, sessions, logger)

		app, err := wire.Wiring(repos, store, config, logger)
		if err != nil {
			return err
		}

		go runSessionJanitor(ctx, app.Service.Auth, config.Session.CleanupInterval, logger)

		return APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
	},
}

// newSessionStore picks the session backend from SESSION_DRIVER.
func newSessionStore(ctx context.Context, config *utils.Config, db database.PgxIface, logger *zap.Logger) (repository.SessionStore, func(), error) {
	switch config.Session.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", config.Redis.Addr, err)
		}
		logger.Info("Sessions stored in redis", zap.String("addr", config.Redis.Addr))
		return repository.NewRedisSessionStore(rdb, logger), func() { _ = rdb.Close() }, nil

	case "postgres", "":
		return repository.NewSessionRepository(db, logger), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session driver %q", config.Session.Driver)
	}
}

// runSessionJanitor purges expired sessions until ctx is cancelled.
func runSessionJanitor(ctx context.Context, auth usecase.AuthService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.CleanExpiredSessions(ctx); err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
			}
		}
	}
}
