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

	"github.com/seometrics/seo-mcp-server/internal/config"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/server"
	"github.com/seometrics/seo-mcp-server/internal/usecases"
	"github.com/seometrics/seo-mcp-server/internal/usecases/seo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.ForEnvironment(cfg.Environment)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := server.NewInMemoryToolRepository()
	if err := seo.RegisterTools(ctx, repo, seo.NewStaticDataSource()); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	runtime := usecases.NewRuntime(cfg.ServerName, cfg.ServerVersion, repo, logger)
	catalog := usecases.NewCatalogResolver(runtime, seo.FallbackCatalog(), logger)
	registry := server.NewSessionRegistry(cfg.MaxConnections, logger)
	srv := server.NewHTTPServer(cfg, registry, runtime, catalog, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
