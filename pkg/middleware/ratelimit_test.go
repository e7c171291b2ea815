package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

func rateLimited(t *testing.T, rps float64, burst int) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return RateLimit(ctx, rps, burst, logger.Discard())(okHandler())
}

func send(h http.Handler, remote, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.RemoteAddr = remote
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_WithinBurst(t *testing.T) {
	h := rateLimited(t, 1, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1", "").Code, "request %d", i+1)
	}
}

func TestRateLimit_ExceedingBurst(t *testing.T) {
	h := rateLimited(t, 0.001, 2)
	send(h, "10.0.0.1:1", "")
	send(h, "10.0.0.1:1", "")

	rec := send(h, "10.0.0.1:1", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimit_KeyedBySessionThenIP(t *testing.T) {
	h := rateLimited(t, 0.001, 1)

	assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1", "tab-a").Code)
	assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1", "tab-b").Code)
	assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1", "").Code)
	assert.Equal(t, http.StatusOK, send(h, "10.0.0.2:1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(h, "10.0.0.1:1", "tab-a").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	h := rateLimited(t, 0, 0)
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1", "").Code)
	}
}

func TestVisitorStore_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newVisitorStore(1, 1, time.Minute)
	s.now = func() time.Time { return now }

	s.get("a")
	now = now.Add(30 * time.Second)
	s.get("b")
	now = now.Add(45 * time.Second)
	s.cleanup()

	assert.Equal(t, 1, s.len())
}

func TestRateLimit_StopsCleanupOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	_ = RateLimit(ctx, 1, 1, logger.Discard())
	cancel()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "bogus, 203.0.113.5, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:1", "198.51.100.7"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
