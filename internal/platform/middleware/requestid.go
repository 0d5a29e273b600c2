// Package middleware holds the chi middleware shared by every route of the
// service, including paths outside the response envelopes.
package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// validRequestID accepts non-empty printable ASCII up to maxRequestIDLength
// bytes so client IDs can be logged verbatim.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}

// RequestID stores a request ID in the context under chi's key and echoes it
// in X-Request-Id. A valid incoming X-Request-Id is reused; otherwise a new
// UUIDv4 is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(chimiddleware.RequestIDHeader)
			if !validRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(chimiddleware.RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
