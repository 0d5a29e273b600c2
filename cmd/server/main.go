package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/huma-responseschema/internal/config"
	"github.com/janisto/huma-responseschema/internal/http/server"
	"github.com/janisto/huma-responseschema/internal/http/v1/routes"
	"github.com/janisto/huma-responseschema/internal/platform/auth"
	"github.com/janisto/huma-responseschema/internal/platform/firebase"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := logging.Err(); err != nil {
		logging.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.LogError(context.Background(), "config load failed", err)
		os.Exit(1)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.LogWarn(context.Background(), "invalid log level, keeping default", zap.String("level", cfg.LogLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeDeps, err := dependencies(ctx, cfg)
	if err != nil {
		logging.LogError(ctx, "firebase init failed", err)
		os.Exit(1)
	}
	defer closeDeps()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logging.LogError(ctx, "listen failed", err, zap.String("addr", cfg.Addr()))
		os.Exit(1)
	}
	if err := run(ctx, cfg, deps, ln); err != nil {
		logging.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
}

// dependencies builds the Firebase-backed services when a project is
// configured. Without one the profile routes stay disabled.
func dependencies(ctx context.Context, cfg *config.Config) (routes.Deps, func(), error) {
	if !cfg.FirebaseEnabled() {
		return routes.Deps{}, func() {}, nil
	}
	clients, err := firebase.New(ctx, firebase.Options{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.GoogleApplicationCredentials,
	})
	if err != nil {
		return routes.Deps{}, nil, err
	}
	deps := routes.Deps{
		Verifier: auth.NewFirebaseVerifier(clients.Auth),
		Profiles: profile.NewFirestoreStore(clients.Firestore),
	}
	return deps, func() {
		if err := clients.Close(); err != nil {
			logging.LogError(context.Background(), "firebase close error", err)
		}
	}, nil
}

// run serves on ln until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, deps routes.Deps, ln net.Listener) error {
	handler, _, err := server.New(cfg, Version, deps)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.LogInfo(context.Background(), "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logging.LogInfo(context.Background(), "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logging.LogInfo(context.Background(), "server exited")
	return nil
}
