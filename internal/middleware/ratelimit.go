package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/friendfeed/internal/logging"
)

// Counter increments a fixed-window counter and reports the new count.
type Counter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter counts with INCR and sets the window expiry only on the
// first hit, so the window does not slide with each request.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	prefix  string
	now     func() time.Time
}

func NewRateLimiter(counter Counter, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		now:     time.Now,
	}
}

// NewAPIRateLimiter limits each client IP to perMinute requests.
func NewAPIRateLimiter(client *redis.Client, perMinute int) *RateLimiter {
	return NewRateLimiter(NewRedisCounter(client), perMinute, time.Minute, "ratelimit:api")
}

// NewAuthRateLimiter is the stricter limiter for login and registration.
func NewAuthRateLimiter(client *redis.Client) *RateLimiter {
	return NewRateLimiter(NewRedisCounter(client), 10, time.Minute, "ratelimit:auth")
}

// Limit fails open when the counter is unavailable.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.counter == nil || rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		now := rl.now()
		windowStart := now.Truncate(rl.window)
		resetAt := windowStart.Add(rl.window)
		key := fmt.Sprintf("%s:%s:%d", rl.prefix, GetClientIP(r), windowStart.Unix())

		count, err := rl.counter.Increment(r.Context(), key, rl.window)
		if err != nil {
			logging.FromContext(r.Context()).WithError(err).Warn("Rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > int64(rl.limit) {
			retry := int(resetAt.Sub(now).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Rate limit exceeded. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
