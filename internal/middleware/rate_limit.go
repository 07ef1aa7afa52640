package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gamage-recruiters/platform/internal/app/models/dto"
)

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit // quota recovered per second
	burst    int        // initial and maximum quota
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter creates a limiter. A rate of 0.05 with a burst of 3 allows three
// requests at once and one more every twenty seconds.
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow consumes one unit of quota for ip and reports whether the request may proceed
// along with the quota left afterwards.
func (r *IPRateLimiter) Allow(ip string) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evict(now)

	v, exists := r.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		return false, 0
	}
	return true, int(math.Floor(v.limiter.TokensAt(now)))
}

// evict drops visitors whose quota has fully recovered
func (r *IPRateLimiter) evict(now time.Time) {
	window := time.Duration(float64(r.burst) / float64(r.limit) * float64(time.Second))
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) > window {
			delete(r.visitors, ip)
		}
	}
}

// Middleware returns the gin handler enforcing the limit
func (r *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.limit <= 0 || r.burst <= 0 {
			c.Next()
			return
		}

		allowed, remaining := r.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(r.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			detail := dto.NewErrorDetail(dto.ErrorCodeTooManyRequests, "Too many requests, please try again later").
				WithSeverity(dto.ErrorSeverityWarning)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(detail))
			return
		}

		c.Next()
	}
}
