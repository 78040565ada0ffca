package middleware

import (
	"log/slog"
	"net/http"

	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

// RequestLogger stores a request-scoped logger (correlation_id, subject,
// trace_id, span_id) in the context for logger.FromContext.
//
// Mount it after RequestLogging and Tracing. Routes behind Auth get the
// subject because Auth re-runs the enrichment once claims are known.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.NewContext(r.Context(), logger.WithContext(r.Context(), base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
