package responseschema

import (
	"context"
	"maps"
	"net/http"
	"reflect"
)

// Metadata is per-response routing metadata returned by a handler alongside
// its payload.
type Metadata map[string]any

// Well-known Metadata keys. Any other key is copied into RouteParams.Extra.
const (
	MetaStatusCode          = "status_code"
	MetaDescription         = "description"
	MetaSummary             = "summary"
	MetaResponseDescription = "response_description"
	// MetaHeaders holds an http.Header added to the response.
	MetaHeaders = "headers"
)

// Reply carries a payload together with Metadata. Handlers declare Reply[T]
// as their result type; the route is documented with T as its model.
type Reply[T any] struct {
	Metadata Metadata
	Content  T
}

// Respond returns a Reply for content.
func Respond[T any](content T, md Metadata) Reply[T] {
	return Reply[T]{Metadata: md, Content: content}
}

func (r Reply[T]) split() (any, Metadata) {
	return r.Content, r.Metadata
}

func (Reply[T]) responseModel() reflect.Type {
	return ResponseModel(reflect.TypeFor[T]())
}

type carrier interface {
	split() (any, Metadata)
}

type modeler interface {
	responseModel() reflect.Type
}

var modelerType = reflect.TypeFor[modeler]()

// ResponseModel returns the inner model of a handler result type, looking
// through Reply and Future.
func ResponseModel(t reflect.Type) reflect.Type {
	if t == nil || t.Kind() == reflect.Interface || !t.Implements(modelerType) {
		return t
	}
	zero := reflect.Zero(t)
	if t.Kind() == reflect.Pointer && t.Elem().Implements(modelerType) {
		zero = reflect.Zero(t.Elem())
	}
	return zero.Interface().(modeler).responseModel()
}

// SplitOutput separates a handler result into payload and metadata. Values
// that are not a Reply are returned unchanged with nil metadata.
func SplitOutput(output any) (any, Metadata) {
	if c, ok := output.(carrier); ok {
		return c.split()
	}
	return output, nil
}

// AdaptOutput builds the envelope for a handler result: it merges Reply
// metadata into params, defaults the status to 200, binds wrapper to model
// and calls FromRoute.
func AdaptOutput(ctx context.Context, output any, wrapper Schema, model reflect.Type, params RouteParams) any {
	content, md := SplitOutput(output)
	params = params.merge(md)
	if params.StatusCode == 0 {
		params.StatusCode = http.StatusOK
	}
	return Bind(wrapper, model).FromRoute(ctx, content, params)
}

func (p RouteParams) merge(md Metadata) RouteParams {
	if len(md) == 0 {
		return p
	}
	p.Extra = maps.Clone(p.Extra)
	for k, v := range md {
		switch k {
		case MetaStatusCode:
			if code, ok := asInt(v); ok {
				p.StatusCode = code
			}
		case MetaDescription:
			if s, ok := v.(string); ok {
				p.Description = s
			}
		case MetaSummary:
			if s, ok := v.(string); ok {
				p.Summary = s
			}
		case MetaResponseDescription:
			if s, ok := v.(string); ok {
				p.ResponseDescription = s
			}
		case MetaHeaders:
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[k] = v
		}
	}
	return p
}

// status returns the carrier status override, or fallback.
func (md Metadata) status(fallback int) int {
	if code, ok := asInt(md[MetaStatusCode]); ok && code > 0 {
		return code
	}
	return fallback
}

func (md Metadata) headers() http.Header {
	switch h := md[MetaHeaders].(type) {
	case http.Header:
		return h
	case map[string]string:
		out := make(http.Header, len(h))
		for k, v := range h {
			out.Set(k, v)
		}
		return out
	default:
		return nil
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
