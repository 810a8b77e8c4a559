package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/lubsanchez/pos-console/config"
	"github.com/lubsanchez/pos-console/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logStartupInfo(ctx, logger, &cfg)

	var redisClient redis.UniversalClient
	if cfg.CredentialStore.Backend == config.StoreRedis {
		redisClient, err = bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	container, err := bootstrap.NewContainer(ctx, bootstrap.ContainerDeps{
		Config: &cfg,
		Redis:  redisClient,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.Run(ctx, bootstrap.RunConfig{Container: container, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	attrs := []any{
		"env", cfg.Env,
		"dev", cfg.IsDev,
		"api", cfg.API.BaseURL,
		"addr", cfg.HTTP.Addr,
		"credential_store", string(cfg.CredentialStore.Backend),
		"metrics", cfg.Observability.Metrics.Enabled,
	}
	if cfg.CredentialStore.Backend == config.StoreRedis {
		attrs = append(attrs, "redis", cfg.Redis.RedactedURI())
	}
	if cfg.Session.PermissionsFile != "" {
		attrs = append(attrs, "permissions_file", cfg.Session.PermissionsFile)
	}
	logger.InfoContext(ctx, "starting pos console", attrs...)
}
