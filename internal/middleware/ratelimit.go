package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a sliding window counter per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time

	// TrustProxy keys clients by X-Forwarded-For or X-Real-IP. Only set it
	// behind a reverse proxy that overwrites those headers.
	TrustProxy bool
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow records a request from ip. When the limit is reached it returns false
// and how long until the oldest request leaves the window.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(ip, now)
	if len(recent) >= rl.limit {
		return false, recent[0].Add(rl.window).Sub(now)
	}
	rl.requests[ip] = append(recent, now)
	return true, 0
}

// prune drops the requests of ip older than the window. Callers hold rl.mu.
func (rl *RateLimiter) prune(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	requests := rl.requests[ip]
	i := 0
	for i < len(requests) && !requests[i].After(cutoff) {
		i++
	}
	recent := requests[i:]
	if len(recent) == 0 {
		delete(rl.requests, ip)
		return nil
	}
	rl.requests[ip] = recent
	return recent
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for ip := range rl.requests {
			rl.prune(ip, now)
		}
		rl.mu.Unlock()
	}
}

// RateLimitAuth limits admin logins to 5 attempts per 15 minutes per IP.
func RateLimitAuth(trustProxy bool) func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(5, 15*time.Minute)
	limiter.TrustProxy = trustProxy
	return RateLimit(limiter)
}

func RateLimit(limiter *RateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, limiter.TrustProxy)
			ok, retryAfter := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				seconds := int(retryAfter.Round(time.Second) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				writeJSONError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next(w, r)
		}
	}
}

// clientIP is the connection address, or the proxy headers when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
