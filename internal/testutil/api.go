package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/huma-responseschema/internal/api"
	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/internal/platform/middleware"
	"github.com/janisto/huma-responseschema/responseschema"
)

// NewAPI returns a router and an enveloped API wired like the server:
// request IDs, request loggers, error envelopes for unmatched routes and
// panics.
func NewAPI(t *testing.T) (chi.Router, *responseschema.App) {
	t.Helper()
	route, err := api.NewRoute()
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	router := chi.NewRouter()
	errs := responseschema.NewErrorHandlers(route.ErrorSchema(), responseschema.WithLogger(logging.LoggerFromContext))
	router.NotFound(errs.NotFound())
	router.MethodNotAllowed(errs.MethodNotAllowed())
	router.Use(middleware.RequestID(), logging.RequestLogger(""), errs.Recoverer())

	app := responseschema.WrapAppResponses(humachi.New(router, huma.DefaultConfig("Test API", "test")), route,
		responseschema.WithLogger(logging.LoggerFromContext))
	return router, app
}

// Do sends a request to h. A non-empty body is sent as JSON.
func Do(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}
