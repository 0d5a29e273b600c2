package responseschema

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// App is a huma.API whose error responses are built by an error envelope and,
// when created by WrapAppResponses, whose operations registered through
// Register are wrapped by an interceptor.
type App struct {
	huma.API
	route  Interceptor
	errors *ErrorHandlers
}

// WrapErrorResponses returns api with every classified error rendered through
// schema. Rewrapping an App keeps its interceptor.
func WrapErrorResponses(api huma.API, schema Schema, opts ...HandlerOption) *App {
	var route Interceptor
	if app, ok := api.(*App); ok {
		api, route = app.API, app.route
	}
	errs := NewErrorHandlers(schema, opts...)
	documentErrors(api, Bind(schema, anyType))
	return &App{API: api, route: route, errors: errs}
}

// WrapAppResponses makes route the default interceptor of api and renders
// errors with route.ErrorSchema().
func WrapAppResponses(api huma.API, route Interceptor, opts ...HandlerOption) *App {
	app := WrapErrorResponses(api, route.ErrorSchema(), opts...)
	app.route = route
	return app
}

// Route returns the default interceptor, or nil.
func (a *App) Route() Interceptor {
	return a.route
}

// Errors returns the error handlers used by the App.
func (a *App) Errors() *ErrorHandlers {
	return a.errors
}

// Transform renders error bodies through the error envelope before running
// the wrapped API's transformers.
func (a *App) Transform(ctx huma.Context, status string, v any) (any, error) {
	if err, ok := v.(error); ok {
		if body, _, ok := a.errors.Render(withScope(ctx.Context(), humaScope(ctx)), err); ok {
			v = body
		}
	}
	return a.API.Transform(ctx, status, v)
}

// WriteError writes err as the response of a huma middleware that stops the
// chain. Headers carried by err are added to the response and unclassified
// errors are written as a 500. On an App the body is the error envelope.
func WriteError(api huma.API, ctx huma.Context, err error) error {
	exc, ok := Adapt(err)
	if !ok {
		err = newNativeError(http.StatusInternalServerError, "internal server error", err)
		exc, _ = Adapt(err)
	}
	for k, values := range exc.Headers {
		for _, v := range values {
			ctx.AppendHeader(k, v)
		}
	}

	ct, negErr := api.Negotiate(ctx.Header("Accept"))
	if negErr != nil {
		ct = contentTypeJSON
	}
	ctx.SetHeader("Content-Type", ct)
	ctx.SetStatus(exc.StatusCode)

	body, err := api.Transform(ctx, strconv.Itoa(exc.StatusCode), err)
	if err != nil {
		return err
	}
	return api.Marshal(ctx.BodyWriter(), ct, body)
}

var installOnce sync.Once

// installNativeErrors replaces huma's error constructors so framework errors
// carry their validation details as *NativeError.
func installNativeErrors() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return newNativeError(status, msg, errs...)
		}
		huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
			return newNativeError(status, msg, errs...)
		}
	})
}
