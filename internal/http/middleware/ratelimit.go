package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"chiblets_lite/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window rate limiter. With Redis configured counters
// are shared between instances via INCR/EXPIRE; without it each process
// keeps its own windows in memory. Redis errors fail open.
type Limiter struct {
	rdb *redis.Client

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	start time.Time
	span  time.Duration
	count int64
}

// sweepInterval bounds how often expired local windows are dropped.
const sweepInterval = time.Minute

// NewLimiter returns a Limiter backed by rdb, or by process memory when
// rdb is nil.
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb, windows: make(map[string]*window), now: time.Now}
}

// ConnectRedis dials addr and pings it. It returns nil when addr is empty
// or the server is unreachable so the caller falls back to local limits.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limits", "addr", addr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// hit increments the counter for key and reports the new value.
func (l *Limiter) hit(ctx context.Context, key string, win time.Duration) (int64, error) {
	if l.rdb != nil {
		val, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		if val == 1 {
			l.rdb.Expire(ctx, key, win)
		}
		return val, nil
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= win {
		w = &window{start: now, span: win}
		l.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// sweep drops expired windows. l.mu must be held.
func (l *Limiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= w.span {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

// PerIP limits requests per client IP.
// key format: rl:<window_seconds>:<ip>
func (l *Limiter) PerIP(maxRequests int, win time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(win.Seconds()), 10) + ":" + c.ClientIP()
		val, err := l.hit(c.Request.Context(), key, win)
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// PerUser limits game actions per authenticated user. It must run after JWT.
func (l *Limiter) PerUser(maxActions int, win time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(UserIDKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		id, ok := userID.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		key := "game_rl:" + strconv.FormatInt(id, 10) + ":" + strconv.FormatInt(int64(win.Seconds()), 10)
		val, err := l.hit(c.Request.Context(), key, win)
		if err != nil {
			c.Header("X-GameRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(win.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
