package responseschema

import (
	"errors"
	"maps"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Shape classifies the errors an envelope can be built from.
type Shape int

const (
	// ShapeGeneric is an *HTTPError carrying extra parameters.
	ShapeGeneric Shape = iota + 1
	// ShapeHTTPWithHeaders is a huma.StatusError that also implements
	// huma.HeadersError.
	ShapeHTTPWithHeaders
	// ShapeHTTP is a plain huma.StatusError.
	ShapeHTTP
	// ShapeValidation is a request validation failure with structured details.
	ShapeValidation
)

func (s Shape) String() string {
	switch s {
	case ShapeGeneric:
		return "generic"
	case ShapeHTTPWithHeaders:
		return "http_with_headers"
	case ShapeHTTP:
		return "http"
	case ShapeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Exception is the neutral record an error envelope is built from. It is
// created per error and handed to Schema.FromException.
type Exception struct {
	Shape Shape
	// Reason is the error detail: a string for HTTP errors, the Detail value
	// of an *HTTPError, or []*huma.ErrorDetail for validation failures.
	Reason     any
	StatusCode int
	Headers    http.Header
	// Extra holds the extra parameters of an *HTTPError, keyed as given.
	Extra map[string]any
	// Err is the classified error.
	Err error
}

// Adapt classifies err into an Exception. Classification order is: *HTTPError,
// validation failure, status error with headers, plain status error. Headers
// attached to a validation failure are kept. It reports false when err matches
// none of them.
func Adapt(err error) (Exception, bool) {
	if err == nil {
		return Exception{}, false
	}

	var generic *HTTPError
	if errors.As(err, &generic) {
		return Exception{
			Shape:      ShapeGeneric,
			Reason:     generic.Detail,
			StatusCode: generic.GetStatus(),
			Headers:    generic.Headers.Clone(),
			Extra:      maps.Clone(generic.Extra),
			Err:        err,
		}, true
	}

	var he huma.HeadersError
	hasHeaders := errors.As(err, &he)

	if details, ok := validationDetails(err); ok {
		exc := Exception{
			Shape:      ShapeValidation,
			Reason:     details,
			StatusCode: http.StatusUnprocessableEntity,
			Err:        err,
		}
		if hasHeaders {
			exc.Headers = he.GetHeaders().Clone()
		}
		return exc, true
	}

	var se huma.StatusError
	if !errors.As(err, &se) {
		return Exception{}, false
	}
	exc := Exception{
		Shape:      ShapeHTTP,
		Reason:     detailOf(err),
		StatusCode: se.GetStatus(),
		Err:        err,
	}
	if exc.StatusCode == 0 {
		exc.StatusCode = http.StatusInternalServerError
	}
	if hasHeaders {
		exc.Shape = ShapeHTTPWithHeaders
		exc.Headers = he.GetHeaders().Clone()
	}
	return exc, true
}

func validationDetails(err error) ([]*huma.ErrorDetail, bool) {
	var native *NativeError
	if errors.As(err, &native) && native.IsValidation() {
		return native.Details, true
	}
	var model *huma.ErrorModel
	if errors.As(err, &model) && model.Status == http.StatusUnprocessableEntity && len(model.Errors) > 0 {
		return model.Errors, true
	}
	return nil, false
}

func detailOf(err error) string {
	var native *NativeError
	if errors.As(err, &native) {
		return native.Message
	}
	var model *huma.ErrorModel
	if errors.As(err, &model) {
		return model.Detail
	}
	return err.Error()
}
