package responseschema

import (
	"context"
	"reflect"
	"strconv"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// Schema is implemented by application-defined envelope types. A value of the
// implementing type is a template: its fields are never read by this package,
// only its methods are called to build envelope instances.
//
// The field that carries the payload should be tagged `envelope:"content"` so
// that the bound OpenAPI schema documents the route's response model in it.
type Schema interface {
	// FromRoute builds the envelope for a value returned by a route handler.
	FromRoute(ctx context.Context, content any, params RouteParams) any
	// FromException builds the envelope for a classified error.
	FromException(ctx context.Context, exc Exception) any
}

const (
	contentTagKey   = "envelope"
	contentTagValue = "content"
)

var (
	schemaType = reflect.TypeFor[Schema]()
	anyType    = reflect.TypeFor[any]()
)

// IsEnvelope reports whether t (or a pointer to t) implements Schema. Such
// response models are registered as they are, which keeps an envelope from
// being wrapped twice.
func IsEnvelope(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface {
		return false
	}
	if t.Implements(schemaType) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(schemaType)
}

// Bound is an envelope family bound to the inner model of one route.
type Bound struct {
	Schema Schema
	// Inner is the route's declared response model, or the empty interface
	// for error envelopes.
	Inner reflect.Type
	// Type is the struct documented in OpenAPI: the envelope with its content
	// field retyped to Inner.
	Type reflect.Type
	// Name is the schema name hint, e.g. "EnvelopeItem".
	Name string
}

type bindKey struct {
	schema reflect.Type
	inner  reflect.Type
}

type binding struct {
	typ  reflect.Type
	name string
}

var (
	bindings sync.Map // bindKey -> binding

	bindMu     sync.Mutex
	boundNames = map[string]reflect.Type{}
)

// Bind binds the envelope family s to the inner type. A nil inner type binds
// to the empty interface. Results are cached per (envelope type, inner type),
// so the same pair always yields the same derived type. Names are unique per
// process: a derived type whose name is already taken gets a numeric suffix.
func Bind(s Schema, inner reflect.Type) *Bound {
	if inner == nil {
		inner = anyType
	}
	st := reflect.TypeOf(s)
	key := bindKey{schema: st, inner: inner}
	if cached, ok := bindings.Load(key); ok {
		b := cached.(binding)
		return &Bound{Schema: s, Inner: inner, Type: b.typ, Name: b.name}
	}

	bindMu.Lock()
	defer bindMu.Unlock()
	if cached, ok := bindings.Load(key); ok {
		b := cached.(binding)
		return &Bound{Schema: s, Inner: inner, Type: b.typ, Name: b.name}
	}
	typ := boundType(st, inner)
	b := binding{typ: typ, name: uniqueName(typeName(st)+typeName(inner), typ)}
	bindings.Store(key, b)
	return &Bound{Schema: s, Inner: inner, Type: b.typ, Name: b.name}
}

// uniqueName claims base for t, or base2, base3, ... when another type owns
// it. Callers hold bindMu.
func uniqueName(base string, t reflect.Type) string {
	name := base
	for i := 2; ; i++ {
		owner, taken := boundNames[name]
		if !taken || owner == t {
			boundNames[name] = t
			return name
		}
		name = base + strconv.Itoa(i)
	}
}

// FromRoute calls the envelope's success constructor with the bound model
// recorded in params.
func (b *Bound) FromRoute(ctx context.Context, content any, params RouteParams) any {
	params.ResponseModel = b.Inner
	return b.Schema.FromRoute(ctx, content, params)
}

// FromException calls the envelope's error constructor.
func (b *Bound) FromException(ctx context.Context, exc Exception) any {
	return b.Schema.FromException(ctx, exc)
}

// FromExceptionHandler classifies err with Adapt and builds the error envelope
// of schema for it. It reports false for errors Adapt does not recognise.
func FromExceptionHandler(ctx context.Context, schema Schema, err error) (any, Exception, bool) {
	exc, ok := Adapt(err)
	if !ok {
		return nil, exc, false
	}
	return Bind(schema, anyType).FromException(ctx, exc), exc, true
}

func boundType(envelope, inner reflect.Type) reflect.Type {
	t := derefType(envelope)
	if t == nil || t.Kind() != reflect.Struct {
		return t
	}
	fields, found := boundFields(t, inner, map[string]bool{})
	if !found {
		return t
	}
	return reflect.StructOf(fields)
}

func boundFields(t, inner reflect.Type, seen map[string]bool) ([]reflect.StructField, bool) {
	var (
		fields []reflect.StructField
		found  bool
	)
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && derefType(f.Type).Kind() == reflect.Struct {
			sub, ok := boundFields(derefType(f.Type), inner, seen)
			fields = append(fields, sub...)
			found = found || ok
			continue
		}
		if !f.IsExported() || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		typ := f.Type
		if !found && f.Tag.Get(contentTagKey) == contentTagValue {
			typ = contentType(f.Type, inner)
			found = true
		}
		fields = append(fields, reflect.StructField{Name: f.Name, Type: typ, Tag: f.Tag})
	}
	return fields, found
}

// contentType retypes an interface slot to inner and a slice of interfaces to
// a slice of inner. Concrete slots keep their declared type.
func contentType(slot, inner reflect.Type) reflect.Type {
	switch {
	case slot.Kind() == reflect.Interface:
		return inner
	case slot.Kind() == reflect.Slice && slot.Elem().Kind() == reflect.Interface:
		return reflect.SliceOf(inner)
	case slot.Kind() == reflect.Pointer && slot.Elem().Kind() == reflect.Interface:
		return inner
	default:
		return slot
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeName returns an exported-looking name for t suitable as a schema name
// fragment.
func typeName(t reflect.Type) string {
	t = derefType(t)
	if t == nil {
		return "Any"
	}
	switch t.Kind() {
	case reflect.Interface:
		if t.Name() == "" {
			return "Any"
		}
	case reflect.Slice, reflect.Array:
		if t.Name() == "" {
			return "List" + typeName(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "Map" + typeName(t.Elem())
		}
	}
	if t.Name() == "" {
		return "Object"
	}
	// Keeps type arguments, so box[int] and box[string] differ.
	return huma.DefaultSchemaNamer(t, "")
}
