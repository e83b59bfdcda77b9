package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/jobtracker/internal/backend"
	"github.com/JonMunkholm/jobtracker/internal/config"
	"github.com/JonMunkholm/jobtracker/internal/core"
	"github.com/JonMunkholm/jobtracker/internal/logging"
	"github.com/JonMunkholm/jobtracker/internal/store"
	"github.com/JonMunkholm/jobtracker/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.UseDatabase(),
		"import_max_file_size", cfg.Import.MaxFileSize,
		"export_page_size", cfg.Export.PageSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("failed to open repository", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	service := core.NewService(repo, core.LogNotifier{}, core.ServiceConfig{
		MaxFileSize:    cfg.Import.MaxFileSize,
		ExportPageSize: cfg.Export.PageSize,
		ExportSort:     cfg.Export.Sort,
		HistorySize:    cfg.Import.HistorySize,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let a running import or export finish (with timeout)
		if service.Busy() {
			slog.Info("waiting for running import or export to complete")
			if err := service.WaitForIdle(shutdownCtx); err != nil {
				slog.Warn("operation did not complete in time", "error", err)
			} else {
				slog.Info("operation completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openRepository connects to PostgreSQL when DATABASE_URL is set and to the
// REST backend otherwise. The returned func releases the connection.
func openRepository(ctx context.Context, cfg *config.Config) (core.Repository, func(), error) {
	if !cfg.UseDatabase() {
		client, err := backend.New(cfg.Backend.URL,
			backend.WithToken(cfg.Backend.Token),
			backend.WithTimeout(cfg.Backend.Timeout),
		)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using backend API", "url", cfg.Backend.URL)
		return client, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}

	st := store.New(pool)
	if err := st.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.Database.Migrate {
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return st, pool.Close, nil
}
