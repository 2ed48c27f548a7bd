package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/htpc-tools/kodivoice/internal/logger"
)

// requestLogger attaches a request-scoped logger carrying a request id
// and logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestLog := s.logger.With(slog.String("request_id", uuid.NewString()))
		ctx := logger.AddToContext(r.Context(), requestLog)

		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		requestLog.Info(
			"http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.Status()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}
