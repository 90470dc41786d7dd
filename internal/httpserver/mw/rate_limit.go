package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/utils"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int
	SweepInterval     time.Duration
	IdleTTL           time.Duration
	TrustProxy        bool             // resolve IP from proxy headers when true
	Now               func() time.Time // defaults to time.Now
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type tokenBucket struct {
	tokens   float64
	refilled time.Time
	used     time.Time
}

func (b *tokenBucket) refill(now time.Time, perSec, capacity float64) {
	if elapsed := now.Sub(b.refilled).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*perSec)
		b.refilled = now
	}
}

type decision struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds, set when denied
}

type limiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu      sync.Mutex
	clients map[string]*tokenBucket
	swept   time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg = cfg.withDefaults()
	return &limiter{
		cfg:      cfg,
		perSec:   float64(cfg.RefillPerIPPerMin) / 60,
		capacity: float64(cfg.Burst),
		clients:  make(map[string]*tokenBucket),
		swept:    cfg.Now(),
	}
}

// take spends one token from key's bucket at now.
func (l *limiter) take(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if full || now.Sub(l.swept) >= l.cfg.SweepInterval {
		l.evictIdle(now)
	}

	b, ok := l.clients[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, refilled: now, used: now}
		l.clients[key] = b
	}
	b.refill(now, l.perSec, l.capacity)

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / l.perSec))
		return decision{remaining: 0, retryAfter: max(wait, 1)}
	}
	b.tokens--
	b.used = now
	return decision{allowed: true, remaining: int(b.tokens)}
}

// evictIdle drops buckets unused for longer than IdleTTL. l.mu must be held.
func (l *limiter) evictIdle(now time.Time) {
	for key, b := range l.clients {
		if now.Sub(b.used) > l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.swept = now
}

// RateLimit rejects requests with 429 once a client has used up its bucket.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			if !d.allowed {
				h.Set("Retry-After", strconv.Itoa(d.retryAfter))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
