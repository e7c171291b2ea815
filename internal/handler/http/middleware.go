package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	"github.com/rasulshaikhdev/techgear-hub/pkg/httputil"
	"github.com/rasulshaikhdev/techgear-hub/pkg/middleware"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFromHeader resolves the shopper session named by X-Session-ID and
// stores it in the request context. Requests without the header share the
// default session. The session is held in use until the request completes.
// The header's shape is checked earlier by middleware.RequestLogger.
func SessionFromHeader(sessions *service.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, release := sessions.Acquire(r.Context(), r.Header.Get(middleware.SessionHeader))
			defer release()

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) *service.Session {
	sess, _ := ctx.Value(sessionKey).(*service.Session)
	return sess
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
