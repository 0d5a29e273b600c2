package responseschema

import (
	"context"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
)

type scopeKey struct{}

type requestScope struct {
	method    string
	url       url.URL
	addHeader func(name, value string)
}

func withScope(ctx context.Context, s *requestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func scopeFrom(ctx context.Context) *requestScope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{}).(*requestScope)
	return s
}

// humaScope describes the request behind a huma context.
func humaScope(ctx huma.Context) *requestScope {
	return &requestScope{method: ctx.Method(), url: ctx.URL(), addHeader: ctx.AppendHeader}
}

// captureScope is attached to every operation registered through this
// package so envelopes can read the request URL.
func captureScope(ctx huma.Context, next func(huma.Context)) {
	next(huma.WithValue(ctx, scopeKey{}, humaScope(ctx)))
}

// RequestURL returns the URL of the request being answered. It is available
// to envelope constructors and handlers of operations registered through this
// package, and to error envelopes.
func RequestURL(ctx context.Context) (*url.URL, bool) {
	s := scopeFrom(ctx)
	if s == nil {
		return nil, false
	}
	u := s.url
	return &u, true
}

// RequestMethod returns the method of the request being answered, or "".
func RequestMethod(ctx context.Context) string {
	if s := scopeFrom(ctx); s != nil {
		return s.method
	}
	return ""
}
