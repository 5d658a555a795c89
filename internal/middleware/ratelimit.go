package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/carsharing/carsharing/internal/cache"
)

// RateLimiter spends one token from a client's bucket. *cache.Cache
// implements it with a Redis token bucket.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig configures RateLimitIP.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Limiter RateLimiter
	Enabled bool
	RPS     int
	Burst   int
}

// RateLimitIP throttles the car API per client address. chi's RealIP runs
// earlier in the chain, so RemoteAddr already reflects X-Forwarded-For or
// X-Real-IP. When the limiter errors, the failure is logged and the request
// goes through unthrottled.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.Limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			res, err := cfg.Limiter.CheckIPRateLimit(ctx, clientIP(r), cfg.RPS, cfg.Burst)
			if err != nil {
				cfg.Logger.LogAttrs(ctx, slog.LevelError, "rate limit check failed",
					slog.String("request_id", GetRequestID(ctx)),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if res.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			retry := retryAfterSeconds(res.RetryAfter)
			cfg.Logger.LogAttrs(ctx, slog.LevelWarn, "rate limit exceeded",
				slog.String("request_id", GetRequestID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("retry_after_seconds", retry),
			)

			h.Set("Retry-After", strconv.Itoa(retry))
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retry))
		})
	}
}

// retryAfterSeconds rounds d up to whole seconds, with a floor of one.
func retryAfterSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// writeJSONError writes the {"error", "code"} body the handlers also use.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
