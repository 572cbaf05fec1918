package ratelimit

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/metrics"
)

// Middleware throttles requests per signed-in user, or per client IP for
// anonymous callers. scope namespaces the keys and labels the metric.
func Middleware(l Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":ip:" + ClientIP(r)
			if u, ok := auth.CurrentUser(r); ok {
				key = scope + ":user:" + u.ID
			}
			if !l.Allow(r.Context(), key) {
				metrics.RateLimited.WithLabelValues(scope).Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":  "rate_limited",
					"error": "Too many requests. Please slow down and try again shortly.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
