package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger stores a request-scoped logger and correlation ID in the
// request context. With a projectID, incoming trace headers are linked to
// Cloud Trace; otherwise the chi request ID is the correlation ID.
func RequestLogger(projectID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimiddleware.GetReqID(r.Context())
			logger := Logger()
			traceID := reqID

			if projectID != "" {
				if s, ok := parseSpan(r.Header.Get(traceparentHeader), r.Header.Get(cloudTraceHeader)); ok {
					logger = logger.With(s.fields(projectID)...)
					traceID = s.resource(projectID)
				}
			}
			if reqID != "" {
				logger = logger.With(zap.String("requestId", reqID))
			}

			ctx := WithLogger(r.Context(), logger)
			ctx = WithTraceID(ctx, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger logs one line per request once the response is written.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			LoggerFromContext(r.Context()).Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
