package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	loginRateKeyPrefix = "rl:login:"
	loginRateWindow    = time.Minute
)

// LoginRateLimit limits login attempts per phone number (or IP when the body
// carries none). Counters live in Redis when a client is given; otherwise an
// in-process token bucket per key is used.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	local := newLocalLimiter(maxPerMin)
	return func(c *fiber.Ctx) error {
		key := loginRateKey(c)
		if cache == nil {
			if !local.allow(key) {
				return tooManyAttempts()
			}
			return c.Next()
		}
		cnt, err := countAttempt(c.UserContext(), cache, loginRateKeyPrefix+key)
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return tooManyAttempts()
		}
		return c.Next()
	}
}

// countAttempt increments the per-key counter and makes sure it carries an
// expiry, including a counter left without one by an earlier failed EXPIRE.
func countAttempt(ctx context.Context, cache *redis.Client, key string) (int64, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := cache.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.TTL(ctx, key)
		return nil
	}); err != nil {
		return 0, err
	}
	if ttl.Val() < 0 {
		if err := cache.Expire(ctx, key, loginRateWindow).Err(); err != nil {
			cache.Del(ctx, key)
			return 0, err
		}
	}
	return incr.Val(), nil
}

func loginRateKey(c *fiber.Ctx) string {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	_ = c.BodyParser(&req)
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		return phone
	}
	return c.IP()
}

func tooManyAttempts() error {
	return fiber.NewError(http.StatusTooManyRequests, "too many login attempts, try again later")
}

type localLimiter struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*localBucket
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(perMin int) *localLimiter {
	return &localLimiter{perMin: perMin, limiters: make(map[string]*localBucket)}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, b := range l.limiters {
		if now.Sub(b.lastSeen) > 10*time.Minute {
			delete(l.limiters, k)
		}
	}

	b, ok := l.limiters[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.limiters[key] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}
