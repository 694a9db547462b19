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
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/adapters/gateway"
	adapterHTTP "github.com/comitanigiacomo/kanso-coach/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-coach/internal/adapters/presenter"
	"github.com/comitanigiacomo/kanso-coach/internal/config"
	"github.com/comitanigiacomo/kanso-coach/internal/core/services"
	"github.com/comitanigiacomo/kanso-coach/internal/core/workers"
	"github.com/comitanigiacomo/kanso-coach/internal/platform/logger"
)

const commandBuffer = 64

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

	view := presenter.NewViewPresenter()
	trackerService := services.NewTrackerService(view, services.TrackerConfig{Username: cfg.Username}, zl)

	loop := workers.NewCommandLoop(zl, commandBuffer)
	loop.Start(context.Background())

	relay := gateway.NewClient(cfg.RelayURL, &http.Client{Timeout: cfg.RelayTimeout})
	controller := services.NewTrackerController(trackerService, loop, relay, zl)

	seed := cfg.SeedHabits
	if len(seed) == 0 {
		seed = services.DefaultSeedHabits
	}
	if err := controller.LoadBatch(context.Background(), seed); err != nil {
		zl.Fatal("failed to load initial habits", zap.Error(err))
	}

	router := adapterHTTP.NewTrackerRouter(adapterHTTP.TrackerDependencies{
		TrackerHandler: adapterHTTP.NewTrackerHandler(controller, view),
		RelayURL:       relay.RelayURL(),
		TrustedProxies: cfg.TrustedProxies,
		Logger:         zl,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.TrackerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zl.Info("tracker listening",
			zap.String("url", "http://localhost:"+cfg.TrackerPort),
			zap.String("relay", relay.RelayURL()),
			zap.String("user", trackerService.Username()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("tracker server error", zap.Error(err))
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
	}

	// Waits for an in-flight suggestion request to settle.
	loop.Stop()

	zl.Info("tracker stopped gracefully")
}
