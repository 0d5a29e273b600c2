// Package envelopeapi exposes the public part of the enveloped API as an HTTP
// Cloud Function. Profile routes need Firestore and are served by cmd/server
// only.
package envelopeapi

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"

	"github.com/janisto/huma-responseschema/internal/api"
	"github.com/janisto/huma-responseschema/internal/config"
	"github.com/janisto/huma-responseschema/internal/http/server"
	"github.com/janisto/huma-responseschema/internal/http/v1/routes"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
)

// Version can be overridden at build time like main.Version.
var Version = "dev"

func init() {
	functions.HTTP("API", handle)
}

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

func build() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.LogWarn(context.Background(), "invalid log level, keeping default", zap.String("level", cfg.LogLevel))
	}
	handler, _, initErr = server.New(cfg, Version, routes.Deps{})
}

var (
	fallbackOnce sync.Once
	fallback     *responseschema.ErrorHandlers
)

func handle(w http.ResponseWriter, r *http.Request) {
	once.Do(build)
	if initErr != nil {
		logging.LogError(r.Context(), "function init failed", initErr)
		unavailable(w, r)
		return
	}
	handler.ServeHTTP(w, r)
}

func unavailable(w http.ResponseWriter, r *http.Request) {
	fallbackOnce.Do(func() {
		if route, err := api.NewRoute(); err == nil {
			fallback = responseschema.NewErrorHandlers(route.ErrorSchema())
		}
	})
	if fallback == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	fallback.Write(w, r, responseschema.NewHTTPError(http.StatusServiceUnavailable, "service unavailable"))
}
