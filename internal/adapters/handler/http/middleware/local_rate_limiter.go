package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LocalRateLimiter is the in-process fallback used when no redis is
// configured. One token bucket per client IP.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	every    time.Duration
	burst    int
}

func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		every:    window / time.Duration(limit),
		burst:    limit,
	}
}

func (l *LocalRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		// Dropping all buckets is crude but bounds memory.
		if len(l.limiters) > 10000 {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Every(l.every), l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *LocalRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())

		now := time.Now()
		r := limiter.ReserveN(now, 1)
		delay := r.DelayFrom(now)
		if delay > 0 {
			r.CancelAt(now)
			setRateLimitHeaders(c, l.limit, 0, now.Add(delay))
			rejectRateLimited(c, delay.Round(time.Second))
			return
		}

		setRateLimitHeaders(c, l.limit, int64(limiter.TokensAt(now)), now.Add(l.every))
		c.Next()
	}
}
