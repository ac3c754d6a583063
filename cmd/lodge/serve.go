package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge"
	"github.com/wildwoodlodge/lodge/sitemap"
	"github.com/wildwoodlodge/lodge/views"
)

// configFromEnv reads LODGE_* variables into a SiteConfig.
func configFromEnv() (lodge.SiteConfig, error) {
	cfg := lodge.SiteConfig{
		Name:          os.Getenv("LODGE_SITE_NAME"),
		URL:           os.Getenv("LODGE_SITE_URL"),
		Description:   lodge.EnvOr("LODGE_SITE_DESCRIPTION", "An eco lodge in the Western Ghats, built from earth and run on sunlight."),
		Phone:         os.Getenv("LODGE_PHONE"),
		Email:         os.Getenv("LODGE_EMAIL"),
		Address:       os.Getenv("LODGE_ADDRESS"),
		Addr:          os.Getenv("LODGE_ADDR"),
		DatabasePath:  os.Getenv("LODGE_DATABASE_PATH"),
		AdminPassword: os.Getenv("LODGE_ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("LODGE_SESSION_SECRET"),
	}

	var err error
	if cfg.CookieSecure, err = strconv.ParseBool(lodge.EnvOr("LODGE_COOKIE_SECURE", "false")); err != nil {
		return cfg, fmt.Errorf("LODGE_COOKIE_SECURE: %w", err)
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(lodge.EnvOr("LODGE_METRICS", "true")); err != nil {
		return cfg, fmt.Errorf("LODGE_METRICS: %w", err)
	}
	if cfg.SitemapCacheTTL, err = time.ParseDuration(lodge.EnvOr("LODGE_SITEMAP_TTL", "1h")); err != nil {
		return cfg, fmt.Errorf("LODGE_SITEMAP_TTL: %w", err)
	}
	return cfg, nil
}

func serveCmd(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := configFromEnv()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []lodge.Option{lodge.WithLogger(logger)}
			if redisURL := os.Getenv("LODGE_REDIS_URL"); redisURL != "" {
				cache, err := sitemap.NewRedisCache(ctx, redisURL, cfg.SitemapCacheTTL, logger)
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				defer cache.Close()
				opts = append(opts, lodge.WithSitemapCache(cache))
				logger.Info("sitemap cache: redis")
			}

			app := lodge.New(cfg, views.Funcs(), opts...)
			defer app.Close()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides LODGE_ADDR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides LODGE_DATABASE_PATH)")
	return cmd
}
