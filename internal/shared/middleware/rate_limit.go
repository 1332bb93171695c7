package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

const (
	rateLimitKeyPrefix = "ratelimit:"
	rateLimitWindow    = time.Second
)

// RateLimit is a fixed one-second window per client IP kept in Redis. If
// Redis is unreachable the request is let through. X-Forwarded-For is only
// read when trustProxy is set.
func RateLimit(rdb *redis.Client, limitPerSec int, trustProxy bool, logger *util.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(clientIP(r, trustProxy), time.Now())
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()

			// Each window has its own key, so a lost EXPIRE cannot block a
			// client beyond the window it was counted in.
			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				pipe.Expire(ctx, key, 2*rateLimitWindow)
				return nil
			})
			if err != nil {
				logger.Warn("RateLimit", "redis unavailable: "+err.Error())
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limitPerSec))
			if incr.Val() > int64(limitPerSec) {
				w.Header().Set("Retry-After", "1")
				util.WriteJSONError(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(ip string, now time.Time) string {
	return rateLimitKeyPrefix + ip + ":" + strconv.FormatInt(now.Unix(), 10)
}

// clientIP is the peer address, or with trustProxy the last X-Forwarded-For
// hop, which is the one the proxy itself appended.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			hops := strings.Split(fwd, ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
