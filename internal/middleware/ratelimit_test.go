package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubLimiter struct {
	allow bool
	calls []string
}

func (s *stubLimiter) CheckLimit(ctx context.Context, scope, id string, limit int, window time.Duration) (bool, time.Time) {
	s.calls = append(s.calls, scope+":"+id)
	return s.allow, time.Now().Add(window)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPRateLimitMiddleware(t *testing.T) {
	t.Run("passes when allowed", func(t *testing.T) {
		limiter := &stubLimiter{allow: true}
		handler := NewIPRateLimitMiddleware(limiter, 100, 15*time.Minute).Handler(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		req.RemoteAddr = "10.0.0.1"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"ip:10.0.0.1"}, limiter.calls)
		assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("shares one bucket across ports of the same address", func(t *testing.T) {
		limiter := &stubLimiter{allow: true}
		handler := NewIPRateLimitMiddleware(limiter, 100, 15*time.Minute).Handler(okHandler())

		for _, addr := range []string{"203.0.113.7:50001", "203.0.113.7:50002", "[2001:db8::1]:443"} {
			req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			req.RemoteAddr = addr
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		assert.Equal(t, []string{"ip:203.0.113.7", "ip:203.0.113.7", "ip:2001:db8::1"}, limiter.calls)
	})

	t.Run("rejects with 429 and retry after", func(t *testing.T) {
		limiter := &stubLimiter{allow: false}
		handler := NewIPRateLimitMiddleware(limiter, 100, time.Minute).Handler(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
	})
}

func TestUserRateLimitMiddleware(t *testing.T) {
	t.Run("keys by authenticated user", func(t *testing.T) {
		limiter := &stubLimiter{allow: true}
		handler := NewUserRateLimitMiddleware(limiter, 60).Handler(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"user:user-1"}, limiter.calls)
	})

	t.Run("skips anonymous requests", func(t *testing.T) {
		limiter := &stubLimiter{allow: false}
		handler := NewUserRateLimitMiddleware(limiter, 60).Handler(okHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, limiter.calls)
	})
}
