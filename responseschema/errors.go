package responseschema

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// HTTPError is an application-defined HTTP error. Detail, Headers and Extra
// are passed verbatim to the error envelope, so handlers can attach custom
// fields (a human-readable message, an error code) per error.
type HTTPError struct {
	Status  int
	Detail  any
	Headers http.Header
	Extra   map[string]any
}

// ErrorOption configures an HTTPError.
type ErrorOption func(*HTTPError)

// WithHeaders merges h into the error's response headers.
func WithHeaders(h http.Header) ErrorOption {
	return func(e *HTTPError) {
		for k, values := range h {
			for _, v := range values {
				e.header().Add(k, v)
			}
		}
	}
}

// WithHeader sets a single response header.
func WithHeader(key, value string) ErrorOption {
	return func(e *HTTPError) {
		e.header().Set(key, value)
	}
}

// WithExtra attaches an extra parameter for the error envelope.
func WithExtra(key string, value any) ErrorOption {
	return func(e *HTTPError) {
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[key] = value
	}
}

// NewHTTPError returns an HTTPError with the given status and detail.
func NewHTTPError(status int, detail any, opts ...ErrorOption) *HTTPError {
	e := &HTTPError{Status: status, Detail: detail}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPError) header() http.Header {
	if e.Headers == nil {
		e.Headers = make(http.Header)
	}
	return e.Headers
}

func (e *HTTPError) Error() string {
	if e.Detail != nil {
		if s, ok := e.Detail.(string); ok && s != "" {
			return s
		}
		return fmt.Sprintf("HTTP %d: %v", e.GetStatus(), e.Detail)
	}
	return statusMessage(e.GetStatus())
}

// GetStatus returns the response status, defaulting to 500 when unset.
func (e *HTTPError) GetStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// GetHeaders returns the headers to send with the error response.
func (e *HTTPError) GetHeaders() http.Header {
	return e.Headers
}

// BadRequest returns a 400 HTTPError.
func BadRequest(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, detail, opts...)
}

// Unauthorized returns a 401 HTTPError.
func Unauthorized(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, detail, opts...)
}

// Forbidden returns a 403 HTTPError.
func Forbidden(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, detail, opts...)
}

// NotFound returns a 404 HTTPError.
func NotFound(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, detail, opts...)
}

// MethodNotAllowed returns a 405 HTTPError.
func MethodNotAllowed(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, detail, opts...)
}

// Conflict returns a 409 HTTPError.
func Conflict(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, detail, opts...)
}

// Gone returns a 410 HTTPError.
func Gone(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusGone, detail, opts...)
}

// UnprocessableEntity returns a 422 HTTPError.
func UnprocessableEntity(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, detail, opts...)
}

// InternalServerError returns a 500 HTTPError.
func InternalServerError(detail any, opts ...ErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, detail, opts...)
}

// NativeError is the error value huma produces once the error handlers are
// installed: validation failures, parse errors and the huma.ErrorXXX helpers
// all return it. It never reaches the client directly on a wrapped API.
type NativeError struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Details []*huma.ErrorDetail `json:"details,omitempty"`
	causes  []error
}

func newNativeError(status int, msg string, errs ...error) *NativeError {
	e := &NativeError{Status: status, Message: msg}
	for _, err := range errs {
		if err == nil {
			continue
		}
		if d, ok := err.(huma.ErrorDetailer); ok {
			e.Details = append(e.Details, d.ErrorDetail())
			continue
		}
		e.causes = append(e.causes, err)
	}
	return e
}

func (e *NativeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = statusMessage(e.GetStatus())
	}
	if len(e.Details) == 0 {
		return msg
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Error())
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// GetStatus returns the response status, defaulting to 500 when unset.
func (e *NativeError) GetStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// IsValidation reports whether the error is a request validation failure.
func (e *NativeError) IsValidation() bool {
	return e.Status == http.StatusUnprocessableEntity && len(e.Details) > 0
}

func (e *NativeError) Unwrap() []error {
	return e.causes
}

// documentedErrors maps each App's schema registry to its error envelope
// bound to any, so every API documents its own error responses.
var documentedErrors sync.Map // huma.Registry -> *Bound

func documentErrors(api huma.API, b *Bound) {
	if oapi := api.OpenAPI(); oapi != nil && oapi.Components != nil && oapi.Components.Schemas != nil {
		documentedErrors.Store(oapi.Components.Schemas, b)
	}
}

// Schema documents error responses as the error envelope of the App that
// owns r. Registries of plain APIs get a generic object.
func (e *NativeError) Schema(r huma.Registry) *huma.Schema {
	if b, ok := documentedErrors.Load(r); ok {
		bound := b.(*Bound)
		return r.Schema(bound.Type, true, bound.Name)
	}
	return &huma.Schema{Type: huma.TypeObject}
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
