package responseschema

import (
	"context"
	"net/http"
	"reflect"
	"slices"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// State is the lifecycle position of a route registration.
type State int

const (
	StateDeclared State = iota
	StateWrapped
	StateBypassed
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateWrapped:
		return "wrapped"
	case StateBypassed:
		return "bypassed"
	case StateRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// Registration records how an operation was registered.
type Registration struct {
	Params RouteParams
	// Model is the declared response model, nil-free: routes returning an
	// interface type report that interface.
	Model reflect.Type
	// Wrapper and Envelope are set for wrapped routes only.
	Wrapper  Schema
	Envelope *Bound
	State    State
	history  []State
}

func (r *Registration) transition(s State) {
	r.history = append(r.history, s)
	r.State = s
}

// Wrapped reports whether the route's responses are enveloped.
func (r *Registration) Wrapped() bool {
	return slices.Contains(r.history, StateWrapped)
}

// Bypassed reports whether the route was registered without an envelope.
func (r *Registration) Bypassed() bool {
	return slices.Contains(r.history, StateBypassed)
}

// Option configures a single route registration.
type Option func(*RouteParams)

// Include keeps only the given dotted envelope paths in responses.
func Include(paths ...string) Option {
	return func(p *RouteParams) {
		p.Filter.Include = append(p.Filter.Include, paths...)
	}
}

// Exclude removes the given dotted envelope paths from responses.
func Exclude(paths ...string) Option {
	return func(p *RouteParams) {
		p.Filter.Exclude = append(p.Filter.Exclude, paths...)
	}
}

// ExcludeNone removes null fields from responses.
func ExcludeNone() Option {
	return func(p *RouteParams) {
		p.Filter.ExcludeNone = true
	}
}

// ResponseDescription sets the description of the documented response.
func ResponseDescription(desc string) Option {
	return func(p *RouteParams) {
		p.ResponseDescription = desc
	}
}

type bodyOutput struct {
	Status int
	Body   any
}

// Register registers an operation whose handler returns its plain payload.
// On an App with an interceptor the payload is wrapped in the selected
// envelope; on any other API the operation is registered unwrapped.
func Register[I, T any](api huma.API, op huma.Operation, handler func(context.Context, *I) (T, error), opts ...Option) *Registration {
	var route Interceptor
	if app, ok := api.(*App); ok && app.route != nil {
		route = app.route
	}
	return RegisterRoute(api, route, op, handler, opts...)
}

// RegisterRoute registers an operation using the given interceptor. A nil
// interceptor, an interface result type or a result type that is already an
// envelope bypass wrapping.
func RegisterRoute[I, T any](api huma.API, route Interceptor, op huma.Operation, handler func(context.Context, *I) (T, error), opts ...Option) *Registration {
	model := ResponseModel(reflect.TypeFor[T]())
	reg := &Registration{Params: newRouteParams(op, model, opts), Model: model}
	reg.transition(StateDeclared)
	params := reg.Params

	op.Middlewares = append(slices.Clone(op.Middlewares), captureScope)

	if route == nil || model.Kind() == reflect.Interface || IsEnvelope(model) {
		reg.transition(StateBypassed)
		if model.Kind() != reflect.Interface {
			op.Responses = documentResponse(api, op, params, model, "")
		}
		huma.Register(api, op, func(ctx context.Context, in *I) (*bodyOutput, error) {
			out, err := handler(ctx, in)
			if err != nil {
				return nil, err
			}
			v, err := resolve(ctx, any(out))
			if err != nil {
				return nil, err
			}
			content, md := SplitOutput(v)
			addHeaders(ctx, md.headers())
			return &bodyOutput{Status: md.status(params.StatusCode), Body: content}, nil
		})
		reg.transition(StateRegistered)
		return reg
	}

	wrapper := route.WrapperModel(route.IsErrorState(params.StatusCode), model)
	bound := route.OverrideResponseModel(wrapper, model)
	reg.Wrapper, reg.Envelope = wrapper, bound
	reg.transition(StateWrapped)

	op.Responses = documentResponse(api, op, params, bound.Type, bound.Name)
	huma.Register(api, op, func(ctx context.Context, in *I) (*bodyOutput, error) {
		out, err := handler(ctx, in)
		if err != nil {
			return nil, err
		}
		v, err := resolve(ctx, any(out))
		if err != nil {
			return nil, err
		}
		body, err := params.Filter.Apply(route.WrapOutput(ctx, v, wrapper, model, params))
		if err != nil {
			return nil, err
		}
		_, md := SplitOutput(v)
		addHeaders(ctx, md.headers())
		return &bodyOutput{Status: md.status(params.StatusCode), Body: body}, nil
	})
	reg.transition(StateRegistered)
	return reg
}

func newRouteParams(op huma.Operation, model reflect.Type, opts []Option) RouteParams {
	p := RouteParams{
		Path:          op.Path,
		Method:        op.Method,
		OperationID:   op.OperationID,
		Summary:       op.Summary,
		Description:   op.Description,
		Tags:          slices.Clone(op.Tags),
		Deprecated:    op.Deprecated,
		Hidden:        op.Hidden,
		StatusCode:    op.DefaultStatus,
		ResponseModel: model,
	}
	if p.StatusCode == 0 {
		p.StatusCode = http.StatusOK
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// documentResponse pre-populates the declared status response so huma keeps
// the envelope schema instead of deriving one from the dynamic body.
func documentResponse(api huma.API, op huma.Operation, params RouteParams, t reflect.Type, hint string) map[string]*huma.Response {
	responses := make(map[string]*huma.Response, len(op.Responses)+1)
	for k, v := range op.Responses {
		responses[k] = v
	}
	code := strconv.Itoa(params.StatusCode)
	resp, ok := responses[code]
	if !ok {
		resp = &huma.Response{}
		responses[code] = resp
	}
	if resp.Description == "" {
		resp.Description = params.ResponseDescription
	}
	if resp.Description == "" {
		resp.Description = http.StatusText(params.StatusCode)
	}
	if resp.Content == nil {
		resp.Content = map[string]*huma.MediaType{}
	}
	mt, ok := resp.Content["application/json"]
	if !ok {
		mt = &huma.MediaType{}
		resp.Content["application/json"] = mt
	}
	if mt.Schema == nil {
		mt.Schema = api.OpenAPI().Components.Schemas.Schema(t, true, hint)
	}
	return responses
}

func addHeaders(ctx context.Context, h http.Header) {
	s := scopeFrom(ctx)
	if s == nil || s.addHeader == nil {
		return
	}
	for k, values := range h {
		for _, v := range values {
			s.addHeader(k, v)
		}
	}
}
