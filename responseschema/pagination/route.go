package pagination

import (
	"context"
	"errors"
	"reflect"

	"github.com/janisto/huma-responseschema/responseschema"
)

// ErrMissingPagedSchema is returned when a Route is configured without a
// paged envelope.
var ErrMissingPagedSchema = errors.New("pagination: paged response schema is required")

// Page is a handler result holding one page of items and the collection
// total.
type Page[T any] struct {
	Items  []T
	Total  int
	Params Params
}

// NewPage returns a page of items out of total.
func NewPage[T any](items []T, total int, params Params) Page[T] {
	return Page[T]{Items: items, Total: total, Params: params.Normalize()}
}

// Paginate slices all into the page selected by params.
func Paginate[T any](all []T, params Params) Page[T] {
	params = params.Normalize()
	start := min(params.Offset(), len(all))
	end := min(start+params.Limit(), len(all))
	return Page[T]{Items: all[start:end], Total: len(all), Params: params}
}

func (p Page[T]) page() (any, int, Params) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return items, p.Total, p.Params.Normalize()
}

func (Page[T]) itemType() reflect.Type {
	return reflect.TypeFor[T]()
}

type pager interface {
	page() (any, int, Params)
}

type itemTyper interface {
	itemType() reflect.Type
}

var itemTyperType = reflect.TypeFor[itemTyper]()

// IsPaged reports whether t is a Page type.
func IsPaged(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface && t.Implements(itemTyperType)
}

func itemTypeOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflect.Zero(t).Interface().(itemTyper).itemType()
}

// PagedSchema is an envelope family for paged collections.
type PagedSchema interface {
	responseschema.Schema
	// Create builds the value handed to FromRoute as content. items is a
	// non-nil slice of the route's item type.
	Create(ctx context.Context, items any, total int, params Params) any
}

// Route is a responseschema.Interceptor that wraps Page results in a paged
// envelope and everything else like responseschema.SchemaRoute.
type Route struct {
	*responseschema.SchemaRoute
	paged PagedSchema
}

var _ responseschema.Interceptor = (*Route)(nil)

// NewRoute returns a Route. response and paged are required; errorResponse
// may be nil.
func NewRoute(response responseschema.Schema, paged PagedSchema, errorResponse responseschema.Schema) (*Route, error) {
	if paged == nil {
		return nil, ErrMissingPagedSchema
	}
	base, err := responseschema.NewSchemaRoute(response, errorResponse)
	if err != nil {
		return nil, err
	}
	return &Route{SchemaRoute: base, paged: paged}, nil
}

// PagedSchema returns the paged envelope.
func (r *Route) PagedSchema() PagedSchema {
	return r.paged
}

// WrapperModel selects the paged envelope for Page models, falling back to
// the error envelope for error states when one is configured.
func (r *Route) WrapperModel(isError bool, model reflect.Type) responseschema.Schema {
	if IsPaged(model) {
		if isError && r.ErrorResponseSchema() != nil {
			return r.ErrorResponseSchema()
		}
		return r.paged
	}
	return r.SchemaRoute.WrapperModel(isError, model)
}

// OverrideResponseModel binds the paged envelope to the item type of Page
// models. Other envelopes receive the Page value itself from WrapOutput and
// are bound to it.
func (r *Route) OverrideResponseModel(wrapper responseschema.Schema, model reflect.Type) *responseschema.Bound {
	if _, isPaged := wrapper.(PagedSchema); isPaged && IsPaged(model) {
		return responseschema.Bind(wrapper, itemTypeOf(model))
	}
	return r.SchemaRoute.OverrideResponseModel(wrapper, model)
}

// WrapOutput builds the paged content with Create before adapting it.
func (r *Route) WrapOutput(ctx context.Context, output any, wrapper responseschema.Schema, model reflect.Type, params responseschema.RouteParams) any {
	content, md := responseschema.SplitOutput(output)
	p, ok := content.(pager)
	ps, isPaged := wrapper.(PagedSchema)
	if !ok || !isPaged {
		return r.SchemaRoute.WrapOutput(ctx, output, wrapper, model, params)
	}
	items, total, pageParams := p.page()
	created := ps.Create(ctx, items, total, pageParams)
	return responseschema.AdaptOutput(ctx, responseschema.Respond(created, md), wrapper, r.OverrideResponseModel(wrapper, model).Inner, params)
}
