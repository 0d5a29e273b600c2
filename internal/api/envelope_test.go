package api

import (
	"context"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-responseschema/internal/platform/logging"
	"github.com/janisto/huma-responseschema/responseschema"
	"github.com/janisto/huma-responseschema/responseschema/pagination"
)

func TestEnvelopeFromRoute(t *testing.T) {
	ctx := logging.WithTraceID(context.Background(), "trace-123")

	got := Envelope{}.FromRoute(ctx, "hello", responseschema.RouteParams{
		StatusCode: http.StatusOK,
		Extra:      map[string]any{ExtraMessage: "greeting created"},
	}).(Envelope)

	if got.Data != "hello" {
		t.Fatalf("expected data hello, got %v", got.Data)
	}
	if got.Error != nil {
		t.Fatalf("expected no error, got %+v", got.Error)
	}
	if got.Meta.TraceID != "trace-123" || got.Meta.Message != "greeting created" {
		t.Fatalf("unexpected meta %+v", got.Meta)
	}
}

func TestEnvelopeFromRouteErrorStatus(t *testing.T) {
	got := Envelope{}.FromRoute(context.Background(), "gone for good", responseschema.RouteParams{
		StatusCode: http.StatusGone,
	}).(Envelope)

	if got.Data != nil {
		t.Fatalf("expected nil data, got %v", got.Data)
	}
	if got.Error == nil || got.Error.Code != "GONE" || got.Error.Message != "gone for good" {
		t.Fatalf("unexpected error %+v", got.Error)
	}
}

func TestEnvelopeFromExceptionHTTP(t *testing.T) {
	exc, ok := responseschema.Adapt(responseschema.NotFound("item not found",
		responseschema.WithExtra(ExtraMessage, "check the id")))
	if !ok {
		t.Fatalf("expected error to be classified")
	}

	got := Envelope{}.FromException(context.Background(), exc).(Envelope)

	if got.Error == nil || got.Error.Code != "NOT_FOUND" || got.Error.Message != "item not found" {
		t.Fatalf("unexpected error %+v", got.Error)
	}
	if got.Meta.Message != "check the id" {
		t.Fatalf("expected extra message in meta, got %q", got.Meta.Message)
	}
}

func TestEnvelopeFromExceptionValidation(t *testing.T) {
	exc := responseschema.Exception{
		Shape:      responseschema.ShapeValidation,
		StatusCode: http.StatusUnprocessableEntity,
		Reason: []*huma.ErrorDetail{
			{Location: "query.page", Message: "expected number >= 1", Value: 0},
			nil,
		},
	}

	got := Envelope{}.FromException(context.Background(), exc).(Envelope)

	if got.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("unexpected code %q", got.Error.Code)
	}
	want := []FieldIssue{{Field: "query.page", Issue: "expected number >= 1", Value: 0}}
	if !reflect.DeepEqual(got.Error.Details, want) {
		t.Fatalf("unexpected details %+v", got.Error.Details)
	}
}

func TestEnvelopeFromExceptionStructuredDetail(t *testing.T) {
	detail := map[string]any{"retry": true}
	got := Envelope{}.FromException(context.Background(), responseschema.Exception{
		StatusCode: http.StatusConflict,
		Reason:     detail,
	}).(Envelope)

	if got.Error.Message != "conflict" || got.Error.Code != "CONFLICT" {
		t.Fatalf("unexpected error %+v", got.Error)
	}
	if !reflect.DeepEqual(got.Error.Detail, detail) {
		t.Fatalf("expected structured detail, got %+v", got.Error.Detail)
	}
}

func TestErrorCode(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:            "BAD_REQUEST",
		http.StatusUnauthorized:          "UNAUTHORIZED",
		http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
		http.StatusRequestEntityTooLarge: "REQUEST_ENTITY_TOO_LARGE",
		http.StatusUnprocessableEntity:   "VALIDATION_FAILED",
		http.StatusInternalServerError:   "INTERNAL_ERROR",
		http.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
		599:                              "ERROR",
	}
	for status, want := range cases {
		if got := ErrorCode(status); got != want {
			t.Fatalf("ErrorCode(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestPagedEnvelopeCreateAndFromRoute(t *testing.T) {
	base, err := url.Parse("/v1/items?page=2&page_size=1")
	if err != nil {
		t.Fatal(err)
	}
	params := pagination.Params{Page: 2, PageSize: 1}
	created := PagedEnvelope{}.Create(context.Background(), []string{"b"}, 3, params).(pagedContent)
	created.md = pagination.NewMetadata(3, params, base)

	got := PagedEnvelope{}.FromRoute(context.Background(), created, responseschema.RouteParams{
		StatusCode: http.StatusOK,
	}).(PagedEnvelope)

	if !reflect.DeepEqual(got.Data, []any{"b"}) {
		t.Fatalf("unexpected data %v", got.Data)
	}
	if got.Pagination == nil || got.Pagination.Total != 3 || got.Pagination.Page != 2 {
		t.Fatalf("unexpected pagination %+v", got.Pagination)
	}
	if got.Pagination.Links.Next == nil || *got.Pagination.Links.Next != "/v1/items?page=3&page_size=1" {
		t.Fatalf("unexpected next link %+v", got.Pagination.Links.Next)
	}
}

func TestPagedEnvelopeFromException(t *testing.T) {
	got := PagedEnvelope{}.FromException(context.Background(), responseschema.Exception{
		StatusCode: http.StatusBadRequest,
		Reason:     "bad category",
	}).(PagedEnvelope)

	if got.Pagination != nil {
		t.Fatalf("expected no pagination, got %+v", got.Pagination)
	}
	if len(got.Data) != 0 || got.Data == nil {
		t.Fatalf("expected empty data list, got %v", got.Data)
	}
	if got.Error.Message != "bad category" {
		t.Fatalf("unexpected error %+v", got.Error)
	}
}

func TestNewRoute(t *testing.T) {
	route, err := NewRoute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := route.ErrorSchema().(Envelope); !ok {
		t.Fatalf("expected Envelope as error schema, got %T", route.ErrorSchema())
	}
	if _, ok := route.PagedSchema().(PagedEnvelope); !ok {
		t.Fatalf("expected PagedEnvelope, got %T", route.PagedSchema())
	}
}
