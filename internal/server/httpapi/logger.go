package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/youverse/dupliverse/internal/logging"
)

// RequestLogger logs one line per request with method, path, status, size
// and latency. Request IDs come from chi's RequestID middleware, which must
// run earlier in the chain.
func RequestLogger(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqID := middleware.GetReqID(r.Context())

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request completed",
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", ww.Status(),
				"bytes_written", ww.BytesWritten(),
				"latency", time.Since(start).String(),
			)
		})
	}
}
