package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/growthyari/growthyari-server/internal/audit"
	apperrors "github.com/growthyari/growthyari-server/internal/errors"
)

// Limiter is satisfied by *service.RateLimiter.
type Limiter interface {
	CheckLimit(ctx context.Context, scope, id string, limit int, window time.Duration) (bool, time.Time)
}

// RateLimitMiddleware limits requests per key. The key is the client IP
// (chi's RealIP runs first) or, for the user scope, the authenticated user.
type RateLimitMiddleware struct {
	limiter Limiter
	scope   string
	limit   int
	window  time.Duration
	keyFunc func(r *http.Request) string
}

func NewIPRateLimitMiddleware(limiter Limiter, limit int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		scope:   "ip",
		limit:   limit,
		window:  window,
		keyFunc: clientIP,
	}
}

// clientIP drops the port so every connection from one address shares a
// bucket. RemoteAddr is a bare IP when RealIP took it from a proxy header.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewUserRateLimitMiddleware must be mounted after AuthMiddleware.
func NewUserRateLimitMiddleware(limiter Limiter, limitPerMin int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		scope:   "user",
		limit:   limitPerMin,
		window:  time.Minute,
		keyFunc: func(r *http.Request) string { return GetUserID(r.Context()) },
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.keyFunc(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowed, resetAt := m.limiter.CheckLimit(r.Context(), m.scope, key, m.limit, m.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			log.Warn().Str("scope", m.scope).Str("key", key).Msg("rate limit exceeded")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				UserID:  GetUserID(r.Context()),
				Details: map[string]interface{}{"scope": m.scope},
			})
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(secondsLeft))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
