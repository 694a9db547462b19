package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-coach/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-coach/internal/adapters/llm"
	"github.com/comitanigiacomo/kanso-coach/internal/config"
	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/core/services"
	"github.com/comitanigiacomo/kanso-coach/internal/platform/logger"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("Critical: failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var completer domain.Completer
	completer, err = llm.NewCompleter(ctx, llm.Config{
		Provider:      cfg.LLMProvider,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
	})
	if err != nil {
		zl.Fatal("failed to configure text-generation provider", zap.String("provider", cfg.LLMProvider), zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			zl.Warn("redis unavailable, using in-process rate limiter and no suggestion cache", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			zl.Info("redis connected", zap.String("host", cfg.Redis.Host), zap.Int("db", cfg.Redis.DB))
			if cfg.SuggestionCacheTTL > 0 {
				completer = cache.NewCachedCompleter(completer, rdb, cfg.SuggestionCacheTTL, zl)
			}
		}
	}

	suggestionService := services.NewSuggestionService(completer, zl)
	suggestionHandler := adapterHTTP.NewSuggestionHandler(suggestionService)

	router := adapterHTTP.NewRelayRouter(adapterHTTP.RelayDependencies{
		SuggestionHandler:  suggestionHandler,
		Provider:           completer.Name(),
		Redis:              rdb,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             zl,
		StartTime:          startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.RelayPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: llm.DefaultTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zl.Info("relay listening", zap.String("url", "http://localhost:"+cfg.RelayPort), zap.String("provider", completer.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("relay server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
		return
	}

	zl.Info("relay stopped gracefully")
}
