package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koinsave/ledger/pkg/web"
)

// authPathPrefix marks routes exempt from throttling so a caller can always
// attempt login or registration.
const authPathPrefix = "/auth"

// Limiter admits or rejects requests using a fixed-window counter per caller
// identity. Counters for distinct identities do not contend with each other.
type Limiter struct {
	requests int
	window   time.Duration
	counters sync.Map // identity -> *counter
}

// NewLimiter returns a Limiter admitting up to requests calls per window.
func NewLimiter(requests int, window time.Duration) *Limiter {
	return &Limiter{
		requests: requests,
		window:   window,
	}
}

// Allow reports whether a call bearing the given identity is admitted now.
func (l *Limiter) Allow(identity string) bool {
	val, _ := l.counters.LoadOrStore(identity, &counter{windowStart: time.Now()})
	c := val.(*counter)

	return c.allow(time.Now(), l.window, l.requests)
}

type counter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// allow resets the window if it has elapsed, then increments and compares.
// The whole sequence is atomic per identity.
func (c *counter) allow(now time.Time, window time.Duration, limit int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.windowStart) > window {
		c.count = 0
		c.windowStart = now
	}

	c.count++

	return c.count <= limit
}

// RateLimit rejects over-limit requests with 429 before any downstream logic runs.
func RateLimit(limiter *Limiter) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		if strings.HasPrefix(gctx.Request.URL.Path, authPathPrefix) {
			gctx.Next()
			return
		}

		if !limiter.Allow(clientIdentity(gctx)) {
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, web.Throttled())
			return
		}

		gctx.Next()
	}
}

// clientIdentity resolves the throttling identity with priority:
// bearer credential, forwarded client address, transport peer address.
func clientIdentity(gctx *gin.Context) string {
	if header := gctx.GetHeader(AuthHeaderKey); strings.HasPrefix(header, "Bearer ") {
		return header
	}

	if forwarded := gctx.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	return gctx.Request.RemoteAddr
}
