// Package server assembles the HTTP handler of the service: the chi router,
// its middleware stack, the enveloped huma API and the routes.
package server

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/huma-responseschema/internal/api"
	"github.com/janisto/huma-responseschema/internal/config"
	"github.com/janisto/huma-responseschema/internal/http/health"
	"github.com/janisto/huma-responseschema/internal/http/v1/routes"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/internal/platform/middleware"
	"github.com/janisto/huma-responseschema/responseschema"
)

const title = "Huma Response Schema API"

// New returns the root handler and the API it serves.
func New(cfg *config.Config, version string, deps routes.Deps) (http.Handler, *responseschema.App, error) {
	route, err := api.NewRoute()
	if err != nil {
		return nil, nil, err
	}
	logger := responseschema.WithLogger(logging.LoggerFromContext)
	errs := responseschema.NewErrorHandlers(route.ErrorSchema(), logger)

	router := chi.NewRouter()
	router.NotFound(errs.NotFound())
	router.MethodNotAllowed(errs.MethodNotAllowed())
	router.Use(
		middleware.Security(cfg.DocsPath),
		middleware.Vary(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		// Only trustworthy behind a proxy that sets X-Forwarded-For.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(cfg.MaxRequestBytes),
		logging.RequestLogger(cfg.FirebaseProjectID),
		logging.AccessLogger(),
		errs.Recoverer(),
	)
	router.Get("/health", health.Handler(version))

	humaCfg := huma.DefaultConfig(title, version)
	humaCfg.DocsPath = cfg.DocsPath
	app := responseschema.WrapAppResponses(humachi.New(router, humaCfg), route, logger)
	app.OpenAPI().OnAddOperation = append(app.OpenAPI().OnAddOperation, documentCBOR)

	routes.Register(app, deps)
	return router, app, nil
}

// documentCBOR lists application/cbor next to every JSON request and
// response body.
func documentCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil {
		if mt, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = mt
		}
	}
	for _, resp := range op.Responses {
		if mt, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = mt
		}
	}
}
