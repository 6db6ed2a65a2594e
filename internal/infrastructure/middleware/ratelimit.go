package middleware

import (
	"net"
	"net/http"

	"merchant-data-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// RateLimit gates requests by client IP before any credential work happens.
// A limiter backend failure admits the request: throttling is protective,
// not load-bearing.
func RateLimit(limiter ports.RateLimiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.Warn().Err(err).Msg("Rate limiter unavailable, admitting request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				WriteError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. The RealIP middleware has
// already rewritten it from forwarding headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
