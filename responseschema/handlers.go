package responseschema

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/danielgtaylor/huma/v2/negotiation"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	contentTypeCBOR = "application/cbor"
)

var (
	writableTypes = []string{contentTypeJSON, contentTypeCBOR}
	probeMethods  = []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
)

// ErrorHandlers renders errors through an error envelope. Besides backing
// App.Transform it provides plain net/http handlers for requests that never
// reach a huma operation.
type ErrorHandlers struct {
	schema Schema
	logger func(context.Context) *zap.Logger
}

// HandlerOption configures ErrorHandlers.
type HandlerOption func(*ErrorHandlers)

// WithLogger sets the request-aware logger used for error logging. The
// default is zap.L.
func WithLogger(fn func(context.Context) *zap.Logger) HandlerOption {
	return func(h *ErrorHandlers) {
		if fn != nil {
			h.logger = fn
		}
	}
}

// NewErrorHandlers returns handlers rendering errors with schema. The first
// call also replaces huma.NewError and huma.NewErrorWithContext for the
// process. OpenAPI error documentation is set per API by WrapErrorResponses,
// not here. It panics when schema is nil.
func NewErrorHandlers(schema Schema, opts ...HandlerOption) *ErrorHandlers {
	if schema == nil {
		panic(ErrMissingResponseSchema)
	}
	installNativeErrors()

	h := &ErrorHandlers{
		schema: schema,
		logger: func(context.Context) *zap.Logger { return zap.L() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Schema returns the error envelope.
func (h *ErrorHandlers) Schema() Schema {
	return h.schema
}

// Render builds the error envelope for err and logs it: 5xx at error level,
// 4xx at warn level. It reports false for errors Adapt does not classify.
func (h *ErrorHandlers) Render(ctx context.Context, err error) (any, Exception, bool) {
	body, exc, ok := FromExceptionHandler(ctx, h.schema, err)
	if !ok {
		return nil, exc, false
	}
	h.log(ctx, exc)
	return body, exc, true
}

func (h *ErrorHandlers) log(ctx context.Context, exc Exception) {
	logger := h.logger(ctx)
	fields := []zap.Field{
		zap.Int("status", exc.StatusCode),
		zap.Stringer("shape", exc.Shape),
	}
	switch {
	case exc.StatusCode >= http.StatusInternalServerError:
		logger.Error("request failed", append(fields, zap.Error(exc.Err))...)
	case exc.StatusCode >= http.StatusBadRequest:
		logger.Warn("request rejected", append(fields, zap.String("reason", exc.Err.Error()))...)
	default:
		logger.Info("request answered with error envelope", fields...)
	}
}

// Write renders err and writes it as JSON or CBOR depending on the Accept
// header. Unclassified errors are written as a 500.
func (h *ErrorHandlers) Write(w http.ResponseWriter, r *http.Request, err error) {
	ctx := withScope(r.Context(), &requestScope{method: r.Method, url: *r.URL})
	body, exc, ok := h.Render(ctx, err)
	if !ok {
		body, exc, _ = h.Render(ctx, newNativeError(http.StatusInternalServerError, "internal server error", err))
	}

	for k, values := range exc.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}

	ct := negotiation.SelectQValueFast(r.Header.Get("Accept"), writableTypes)
	if ct == "" {
		ct = contentTypeJSON
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(exc.StatusCode)

	var werr error
	if ct == contentTypeCBOR {
		werr = cbor.NewEncoder(w).Encode(body)
	} else {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		werr = enc.Encode(body)
	}
	if werr != nil {
		h.logger(ctx).Error("failed to write error envelope", zap.Error(werr))
	}
}

// NotFound handles requests that match no route.
func (h *ErrorHandlers) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Write(w, r, NotFound("resource not found"))
	}
}

// MethodNotAllowed handles requests whose path matches but whose method does
// not. The Allow header lists the methods chi can route for the path.
func (h *ErrorHandlers) MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts []ErrorOption
		if allowed := allowedMethods(r); len(allowed) > 0 {
			opts = append(opts, WithHeader("Allow", strings.Join(allowed, ", ")))
		}
		h.Write(w, r, MethodNotAllowed("method not allowed", opts...))
	}
}

// Recoverer converts panics into a 500 error envelope. http.ErrAbortHandler
// is re-panicked so net/http can abort the response.
func (h *ErrorHandlers) Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel comparison against recover() value
					panic(rec)
				}
				h.logger(r.Context()).Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				h.Write(w, r, newNativeError(http.StatusInternalServerError, "internal server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	path := rctx.RoutePath
	if path == "" {
		if r.URL.RawPath != "" {
			path = r.URL.RawPath
		} else {
			path = r.URL.Path
		}
	}
	var allowed []string
	for _, m := range probeMethods {
		if rctx.Routes.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}
