package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/upb/resource-api/app"
	"github.com/upb/resource-api/config"
	"github.com/upb/resource-api/internal/observability"
	"github.com/upb/resource-api/routes"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "resource-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	logger, closer, err := initLogger(cfg.Observability)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()

	logger.Info("starting resource api",
		zap.String("environment", cfg.Environment),
		zap.String("issuer", cfg.Auth.IssuerURI),
		zap.Strings("allowed_origins", cfg.CORS.AllowedOrigins))

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}
	defer deps.Close(context.Background())

	srv := newServer(cfg.Server, routes.SetupRoutes(deps))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	return serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}

// initLogger builds the zap logger from observability settings
func initLogger(cfg config.ObservabilityConfig) (*zap.Logger, io.Closer, error) {
	return observability.NewLogger(observability.LoggerOptions{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		File:         cfg.LogFile,
		MaxAge:       cfg.LogMaxAge,
		RotationTime: cfg.LogRotationTime,
	})
}

func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// serve runs srv on ln until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
