package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/response"
	"github.com/ulule/limiter/v3"
)

// RateLimit limits requests per client IP with the provided limiter instance.
func RateLimit(limiterInstance *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiterInstance.GetIPKey(r)

			context, err := limiterInstance.Get(r.Context(), key)
			if err != nil {
				slog.Error("failed to get rate limit context", "ip", key, "error", err)
				response.InternalServerError(w, "Internal server error during rate limit check")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				slog.Warn("rate limit exceeded", "ip", key, "limit", context.Limit)
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
