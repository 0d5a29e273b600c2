package responseschema

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// simpleResponse is a {data, error} envelope.
type simpleResponse struct {
	Data  any  `json:"data" envelope:"content"`
	Error bool `json:"error"`
}

func (simpleResponse) FromRoute(_ context.Context, content any, params RouteParams) any {
	return simpleResponse{Data: content, Error: params.StatusCode >= http.StatusBadRequest}
}

func (simpleResponse) FromException(_ context.Context, exc Exception) any {
	return simpleResponse{Data: exc.Reason, Error: true}
}

// simpleError is a {reason, error} envelope.
type simpleError struct {
	Reason any  `json:"reason" envelope:"content"`
	Error  bool `json:"error"`
}

func (simpleError) FromRoute(_ context.Context, content any, _ RouteParams) any {
	return simpleError{Reason: content, Error: true}
}

func (simpleError) FromException(_ context.Context, exc Exception) any {
	return simpleError{Reason: exc.Reason, Error: true}
}

// messageError reads the "message" extra of HTTPError values.
type messageError struct {
	Reason  any    `json:"reason" envelope:"content"`
	Message string `json:"message,omitempty"`
	Error   bool   `json:"error"`
}

func (messageError) FromRoute(_ context.Context, content any, _ RouteParams) any {
	return messageError{Reason: content, Error: true}
}

func (messageError) FromException(_ context.Context, exc Exception) any {
	msg, _ := exc.Extra["message"].(string)
	return messageError{Reason: exc.Reason, Message: msg, Error: true}
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newRoute(t *testing.T, response, errorResponse Schema) *SchemaRoute {
	t.Helper()
	route, err := NewSchemaRoute(response, errorResponse)
	require.NoError(t, err)
	return route
}

// newTestApp builds a chi router with the error handlers installed and an App
// over it.
func newTestApp(t *testing.T, route Interceptor) (*chi.Mux, *App) {
	t.Helper()
	router := chi.NewRouter()
	errs := NewErrorHandlers(route.ErrorSchema())
	router.NotFound(errs.NotFound())
	router.MethodNotAllowed(errs.MethodNotAllowed())
	router.Use(errs.Recoverer())

	api := humachi.New(router, huma.DefaultConfig("ResponseSchemaTest", "test"))
	return router, WrapAppResponses(api, route)
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeMap(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload), resp.Body.String())
	return payload
}
