package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const throttleIdleTTL = 10 * time.Minute

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPThrottle is a per-client token bucket in front of the portal routes. It
// only smooths request floods; PIN lockout lives in the attempt ledger.
type IPThrottle struct {
	mu        sync.Mutex
	entries   map[string]*throttleEntry
	limit     rate.Limit
	burst     int
	ips       ipHasher
	now       func() time.Time
	lastSweep time.Time
}

func NewIPThrottle(rps float64, burst int, ips ipHasher) *IPThrottle {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &IPThrottle{
		entries: make(map[string]*throttleEntry),
		limit:   limit,
		burst:   burst,
		ips:     ips,
		now:     time.Now,
	}
}

func (t *IPThrottle) Allow(clientIP string) bool {
	key := t.ips.Hash(clientIP)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastSweep) > throttleIdleTTL {
		for k, e := range t.entries {
			if now.Sub(e.lastSeen) > throttleIdleTTL {
				delete(t.entries, k)
			}
		}
		t.lastSweep = now
	}

	entry, ok := t.entries[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (t *IPThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
