package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-coach/internal/platform/metrics"
	"github.com/comitanigiacomo/kanso-coach/web"
)

type RelayDependencies struct {
	SuggestionHandler  *SuggestionHandler
	Provider           string
	Redis              *redis.Client
	RateLimitPerMinute int
	TrustedProxies     []string
	Logger             *zap.Logger
	StartTime          time.Time
}

// newBaseRouter believes forwarding headers only from trustedProxies. With
// none, c.ClientIP() is the TCP peer address.
func newBaseRouter(logger *zap.Logger, trustedProxies []string) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Strings("proxies", trustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(metrics.GinMiddleware())
	router.Use(middleware.CORS())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return router
}

func NewRelayRouter(deps RelayDependencies) *gin.Engine {
	router := newBaseRouter(deps.Logger, deps.TrustedProxies)

	var limiter gin.HandlerFunc
	limiterBackend := "disabled"
	if deps.RateLimitPerMinute > 0 {
		if deps.Redis != nil {
			limiter = middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimitPerMinute, time.Minute, deps.Logger)
			limiterBackend = "redis"
		} else {
			limiter = middleware.NewLocalRateLimiter(deps.RateLimitPerMinute, time.Minute).Middleware()
			limiterBackend = "local"
		}
	}

	router.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"provider":     deps.Provider,
			"rate_limiter": limiterBackend,
			"redis":        redisStatus,
			"uptime":       time.Since(deps.StartTime).String(),
		})
	})

	api := router.Group("/api")
	if limiter != nil {
		deps.SuggestionHandler.RegisterRoutes(api, limiter)
	} else {
		deps.SuggestionHandler.RegisterRoutes(api)
	}

	return router
}

type TrackerDependencies struct {
	TrackerHandler *TrackerHandler
	RelayURL       string
	TrustedProxies []string
	Logger         *zap.Logger
	StartTime      time.Time
}

func NewTrackerRouter(deps TrackerDependencies) *gin.Engine {
	router := newBaseRouter(deps.Logger, deps.TrustedProxies)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"relay_url": deps.RelayURL,
			"uptime":    time.Since(deps.StartTime).String(),
		})
	})

	router.StaticFS("/static", web.StaticFS())
	router.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(web.Assets, "static/index.html")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "page unavailable"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	api := router.Group("/api")
	deps.TrackerHandler.RegisterRoutes(api)

	return router
}
