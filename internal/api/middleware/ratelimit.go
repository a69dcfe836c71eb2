package middleware

import (
	"context"
	"coop-collections/internal/config"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiterMiddleware limits requests per client IP. With a Redis client
// the limit is a fixed window shared by every replica; without one each
// process keeps its own token buckets.
type RateLimiterMiddleware struct {
	redisClient redis.Cmdable
	limiters    sync.Map
	cfg         config.RateLimitConfig
	window      time.Duration
	logger      *slog.Logger
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, redisClient redis.Cmdable, logger *slog.Logger) *RateLimiterMiddleware {
	window := cfg.Window
	if window <= 0 {
		window = time.Second
	}
	rl := &RateLimiterMiddleware{
		redisClient: redisClient,
		cfg:         cfg,
		window:      window,
		logger:      logger.With("component", "RateLimiter"),
	}

	switch {
	case !cfg.Enabled:
		rl.logger.Info("Rate limiting is disabled via configuration.")
	case redisClient != nil:
		rl.logger.Info("Rate limiter using Redis fixed window", "limit", rl.windowLimit(), "window", window)
	default:
		rl.logger.Info("Rate limiter using in-process token buckets", "rps", cfg.RPS, "burst", cfg.Burst)
	}
	return rl
}

// RunCleanup drops idle in-process limiters until ctx is done.
func (rl *RateLimiterMiddleware) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanupLimiters()
		}
	}
}

func (rl *RateLimiterMiddleware) cleanupLimiters() {
	rl.limiters.Range(func(key, value interface{}) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(rl.cfg.Burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiterMiddleware) windowLimit() int64 {
	limit := int64(rl.cfg.RPS * rl.window.Seconds())
	return max(limit, int64(rl.cfg.Burst), 1)
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// allowRedis counts the request in the current window. Redis failures let the
// request through.
func (rl *RateLimiterMiddleware) allowRedis(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("ratelimit:%s", ip)

	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		rl.logger.ErrorContext(ctx, "Redis INCR failed during rate limiting check", "error", err, "ip", ip)
		return true
	}
	if count == 1 {
		if err := rl.redisClient.Expire(ctx, key, rl.window).Err(); err != nil {
			rl.logger.ErrorContext(ctx, "Failed to set Redis EXPIRE for rate limit key", "error", err, "key", key)
		}
	}
	return count <= rl.windowLimit()
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		var allowed bool
		if rl.redisClient != nil {
			allowed = rl.allowRedis(r.Context(), ip)
		} else {
			allowed = rl.getLimiter(ip).Allow()
		}

		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", max(rl.window.Seconds(), 1)))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
