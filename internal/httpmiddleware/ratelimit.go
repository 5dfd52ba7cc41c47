package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// PerIPLimiter is an in-memory token bucket keyed by client IP. Single
// instance only; a multi-replica deployment would need a shared backend.
type PerIPLimiter struct {
	capacity int
	rate     int

	mu      sync.Mutex
	buckets map[string]*bucket
	sweep   time.Time
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewPerIPLimiter allows perMinute requests per client with bursts up to the
// same size.
func NewPerIPLimiter(perMinute int) *PerIPLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &PerIPLimiter{
		capacity: perMinute,
		rate:     perMinute,
		buckets:  make(map[string]*bucket),
		sweep:    time.Now(),
	}
}

// Middleware rejects over-limit requests with a plain 429 page. Browsers get
// text, not JSON; this sits in front of HTML routes.
func (l *PerIPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(ip) {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "Too many requests. Please wait a minute and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *PerIPLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.sweep) > 10*time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.last) > 10*time.Minute {
				delete(l.buckets, k)
			}
		}
		l.sweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}

	refill := int(now.Sub(b.last).Minutes() * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
