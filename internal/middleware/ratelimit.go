// internal/middleware/ratelimit.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a redis-backed fixed-window limiter keyed by the
// authenticated caller. A nil limiter is a no-op, so the server runs
// fine without redis configured.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.SugaredLogger
}

func NewRateLimiter(addr string, limit int, logger *zap.SugaredLogger) *RateLimiter {
	if addr == "" {
		return nil
	}
	return &RateLimiter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		limit:  limit,
		window: time.Minute,
		logger: logger,
	}
}

// Wrap limits the handler to limit requests per caller per window.
// If redis is unreachable the request is let through; the limiter
// protects the store, it is not an auth boundary.
func (rl *RateLimiter) Wrap(name string, next http.HandlerFunc) http.HandlerFunc {
	if rl == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			next(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s:%d", name, userID, time.Now().Unix()/int64(rl.window.Seconds()))

		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			next(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(r.Context(), key, rl.window)
		}

		if count > int64(rl.limit) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}
