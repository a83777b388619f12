package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"impractical.co/folio"
)

// withRequestContext tags every request with an ID, attaches a request
// logger to the context for the rendering engine to pick up, wraps the
// request in a span, and logs the request once served.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		ctx, span := tracer.Start(r.Context(), "server.request", trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
			attribute.String("request_id", requestID),
		))
		defer span.End()

		requestLogger := s.logger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx = folio.LoggingContext(ctx, requestLogger)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		requestLogger.InfoContext(ctx, "request served", "duration", time.Since(start))
	})
}
