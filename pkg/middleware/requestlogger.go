package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

// SessionHeader names the shopper session a request acts on.
const SessionHeader = "X-Session-ID"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, session_id, trace_id and span_id. Mount it after
// RequestLogging and Tracing. A malformed X-Session-ID is rejected with 400.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := r.Header.Get(SessionHeader); id != "" {
				if !sessionIDPattern.MatchString(id) {
					writeJSONError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed "+SessionHeader+" header")
					return
				}
				ctx = logger.WithSessionID(ctx, id)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
