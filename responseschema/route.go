package responseschema

import (
	"context"
	"errors"
	"net/http"
	"reflect"
)

// ErrMissingResponseSchema is returned when a route is configured without a
// success envelope.
var ErrMissingResponseSchema = errors.New("responseschema: response schema is required")

// RouteParams is the routing metadata captured when an operation is
// registered. Envelope constructors receive a copy per response, merged with
// any Metadata the handler returned.
type RouteParams struct {
	Path                string
	Method              string
	OperationID         string
	Summary             string
	Description         string
	ResponseDescription string
	Tags                []string
	Deprecated          bool
	// Hidden excludes the operation from the OpenAPI document.
	Hidden bool
	// StatusCode is the declared status, or the carrier override at response
	// time.
	StatusCode int
	// ResponseModel is the route's inner model.
	ResponseModel reflect.Type
	Filter        Filter
	// Extra holds the handler metadata keys with no dedicated field.
	Extra map[string]any
}

// Interceptor decides how a route's responses are wrapped. Applications
// customise a policy by embedding *SchemaRoute and overriding methods; the
// registration path always calls through the interface.
type Interceptor interface {
	// IsErrorState reports whether a declared status code selects the error
	// envelope.
	IsErrorState(status int) bool
	// WrapperModel selects the envelope family for a route.
	WrapperModel(isError bool, model reflect.Type) Schema
	// OverrideResponseModel binds the selected family to the route's model.
	OverrideResponseModel(wrapper Schema, model reflect.Type) *Bound
	// WrapOutput turns a handler result into an envelope instance.
	WrapOutput(ctx context.Context, output any, wrapper Schema, model reflect.Type, params RouteParams) any
	// ErrorSchema is the envelope used for errors outside route results.
	ErrorSchema() Schema
}

// SchemaRoute is the default Interceptor with a success envelope and an
// optional error envelope.
type SchemaRoute struct {
	response      Schema
	errorResponse Schema
}

var _ Interceptor = (*SchemaRoute)(nil)

// NewSchemaRoute returns a SchemaRoute. errorResponse may be nil, in which
// case errors use the success envelope.
func NewSchemaRoute(response, errorResponse Schema) (*SchemaRoute, error) {
	if response == nil {
		return nil, ErrMissingResponseSchema
	}
	return &SchemaRoute{response: response, errorResponse: errorResponse}, nil
}

// ResponseSchema returns the success envelope.
func (r *SchemaRoute) ResponseSchema() Schema {
	return r.response
}

// ErrorResponseSchema returns the configured error envelope, which may be nil.
func (r *SchemaRoute) ErrorResponseSchema() Schema {
	return r.errorResponse
}

// ErrorSchema returns the error envelope, falling back to the success one.
func (r *SchemaRoute) ErrorSchema() Schema {
	if r.errorResponse != nil {
		return r.errorResponse
	}
	return r.response
}

// IsErrorState reports status >= 400. Zero is never an error state.
func (r *SchemaRoute) IsErrorState(status int) bool {
	return status >= http.StatusBadRequest
}

// WrapperModel returns the error envelope for error states when one is
// configured and the success envelope otherwise.
func (r *SchemaRoute) WrapperModel(isError bool, _ reflect.Type) Schema {
	if isError && r.errorResponse != nil {
		return r.errorResponse
	}
	return r.response
}

// OverrideResponseModel binds wrapper to model.
func (r *SchemaRoute) OverrideResponseModel(wrapper Schema, model reflect.Type) *Bound {
	return Bind(wrapper, model)
}

// WrapOutput runs AdaptOutput.
func (r *SchemaRoute) WrapOutput(ctx context.Context, output any, wrapper Schema, model reflect.Type, params RouteParams) any {
	return AdaptOutput(ctx, output, wrapper, model, params)
}
