// Package api defines the response envelopes of the service. Every JSON or
// CBOR body, success or failure, has the shape {data, meta, error}; paged
// collections add pagination.
package api

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
	"github.com/janisto/huma-responseschema/responseschema/pagination"
)

// ExtraMessage is the extra parameter (error option or carrier metadata key)
// copied into meta.message.
const ExtraMessage = "message"

// Envelope is the response body of every non-paged operation.
type Envelope struct {
	Data  any        `json:"data" envelope:"content"`
	Meta  Meta       `json:"meta"`
	Error *ErrorBody `json:"error"`
}

// Meta holds cross-cutting metadata.
type Meta struct {
	TraceID string `json:"traceId,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldIssue `json:"details,omitempty"`
	// Detail carries a structured error detail that is not a message.
	Detail any `json:"detail,omitempty"`
}

// FieldIssue is a field-level validation problem.
type FieldIssue struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
	Value any    `json:"value,omitempty"`
}

func (Envelope) FromRoute(ctx context.Context, content any, params responseschema.RouteParams) any {
	env := Envelope{Meta: newMeta(ctx, params.Extra)}
	if params.StatusCode >= http.StatusBadRequest {
		env.Error = errorBody(params.StatusCode, content)
		return env
	}
	env.Data = content
	return env
}

func (Envelope) FromException(ctx context.Context, exc responseschema.Exception) any {
	return Envelope{
		Meta:  newMeta(ctx, exc.Extra),
		Error: errorBody(exc.StatusCode, exc.Reason),
	}
}

func newMeta(ctx context.Context, extra map[string]any) Meta {
	m := Meta{TraceID: logging.TraceIDFromContext(ctx)}
	if msg, ok := extra[ExtraMessage].(string); ok {
		m.Message = msg
	}
	return m
}

func errorBody(status int, reason any) *ErrorBody {
	body := &ErrorBody{Code: ErrorCode(status)}
	switch r := reason.(type) {
	case nil:
		body.Message = statusText(status)
	case string:
		body.Message = r
	case []*huma.ErrorDetail:
		body.Message = "validation failed"
		body.Details = fieldIssues(r)
	case error:
		body.Message = r.Error()
	case fmt.Stringer:
		body.Message = r.String()
	default:
		body.Message = statusText(status)
		body.Detail = r
	}
	return body
}

func fieldIssues(details []*huma.ErrorDetail) []FieldIssue {
	issues := make([]FieldIssue, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		issues = append(issues, FieldIssue{Field: d.Location, Issue: d.Message, Value: d.Value})
	}
	return issues
}

// ErrorCode maps an HTTP status to the error code exposed to clients.
func ErrorCode(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	}
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

func statusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return "error"
}

// PagedEnvelope is the response body of paged collection operations.
type PagedEnvelope struct {
	Data       []any                `json:"data" envelope:"content"`
	Pagination *pagination.Metadata `json:"pagination"`
	Meta       Meta                 `json:"meta"`
	Error      *ErrorBody           `json:"error"`
}

// pagedContent is what Create hands to FromRoute.
type pagedContent struct {
	items any
	md    pagination.Metadata
}

func (PagedEnvelope) Create(ctx context.Context, items any, total int, params pagination.Params) any {
	return pagedContent{items: items, md: pagination.MetadataFromContext(ctx, total, params)}
}

func (PagedEnvelope) FromRoute(ctx context.Context, content any, params responseschema.RouteParams) any {
	env := PagedEnvelope{Data: []any{}, Meta: newMeta(ctx, params.Extra)}
	c, ok := content.(pagedContent)
	if !ok {
		env.Error = errorBody(http.StatusInternalServerError, nil)
		return env
	}
	md := c.md
	env.Pagination = &md
	v := reflect.ValueOf(c.items)
	if v.Kind() == reflect.Slice {
		env.Data = make([]any, v.Len())
		for i := range v.Len() {
			env.Data[i] = v.Index(i).Interface()
		}
	}
	return env
}

func (PagedEnvelope) FromException(ctx context.Context, exc responseschema.Exception) any {
	return PagedEnvelope{
		Data:  []any{},
		Meta:  newMeta(ctx, exc.Extra),
		Error: errorBody(exc.StatusCode, exc.Reason),
	}
}

// NewRoute returns the interceptor used by the service: Page results get a
// PagedEnvelope, everything else and every error an Envelope.
func NewRoute() (*pagination.Route, error) {
	return pagination.NewRoute(Envelope{}, PagedEnvelope{}, nil)
}
