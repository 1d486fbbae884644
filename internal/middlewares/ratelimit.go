package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/saulo-duarte/interviewace-api/internal/config"
	"golang.org/x/time/rate"
)

const idleClientTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(cfg.Rate),
		burst:   cfg.Burst,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *RateLimiter) evictIdle(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > idleClientTTL {
			delete(l.clients, key)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := l.Allow(clientIP(r))
		if !allowed {
			secs := int(retryAfter.Seconds())
			if retryAfter > time.Duration(secs)*time.Second {
				secs++
			}
			if secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			config.WithContext(r.Context()).WithField("path", r.URL.Path).Warn("rate limit exceeded")
			config.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys on the socket peer. Forwarded headers only count when the
// router runs chi's RealIP, which it does behind a trusted proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
