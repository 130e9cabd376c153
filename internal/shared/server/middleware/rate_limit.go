package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// WindowLimiter allows one request per identity per fixed window.
// Entries older than three windows are evicted by a background sweeper
// so the identity map stays bounded.
type WindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
	done   chan struct{}
	once   sync.Once
}

// NewWindowLimiter constructs a WindowLimiter with the given window.
func NewWindowLimiter(window time.Duration, now func() time.Time) *WindowLimiter {
	if window <= 0 {
		window = 20 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &WindowLimiter{
		window: window,
		last:   make(map[string]time.Time),
		now:    now,
		done:   make(chan struct{}),
	}
}

// Allow reports whether the identity may proceed. On allow the current time is
// recorded as the identity's last accepted request. On deny it returns the
// number of whole seconds the caller must wait, rounded up.
func (l *WindowLimiter) Allow(identity string) (bool, int) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.last[identity]
	if ok {
		elapsed := now.Sub(prev)
		if elapsed < l.window {
			wait := l.window - elapsed
			retryAfter := int(math.Ceil(float64(wait) / float64(time.Second)))
			if retryAfter < 1 {
				retryAfter = 1
			}
			return false, retryAfter
		}
	}
	l.last[identity] = now
	return true, 0
}

// StartSweeper launches the periodic eviction loop. It returns immediately;
// call Stop to terminate the loop.
func (l *WindowLimiter) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.done:
				return
			}
		}
	}()
}

// Stop terminates the sweeper loop. Safe to call more than once.
func (l *WindowLimiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *WindowLimiter) sweep() {
	now := l.now()
	cutoff := 3 * l.window
	l.mu.Lock()
	defer l.mu.Unlock()
	for identity, ts := range l.last {
		if now.Sub(ts) > cutoff {
			delete(l.last, identity)
		}
	}
}

// Len reports the number of tracked identities.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}

// RateLimit throttles requests per client IP using the given limiter.
func RateLimit(limiter *WindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		identity := strings.TrimSpace(c.ClientIP())
		if identity == "" {
			identity = "unknown"
		}
		allowed, retryAfter := limiter.Allow(identity)
		if allowed {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":             fmt.Sprintf("Please wait %d seconds before requesting another analysis.", retryAfter),
			"retryAfterSeconds": retryAfter,
		})
	}
}
