package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PieInTheSky-Inc/yadc/internal/config"
	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/handlers"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
)

const fetchTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting YaDc API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"api_url", cfg.APIURL,
		"cache_ttl", cfg.CacheTTL)

	var cache services.Cache
	var redis *services.RedisService
	if cfg.RedisEnabled() {
		redis, err = services.NewRedisService(cfg.RedisURL, log)
		if err != nil {
			log.Error("Invalid Redis configuration", "error", err)
			os.Exit(1)
		}
		cacheCtx, cacheCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err = redis.WaitForConnection(cacheCtx)
		cacheCancel()
		if err != nil {
			log.Error("Failed to connect to cache", "error", err)
			os.Exit(1)
		}
		cache = redis
		log.Info("Cache connection established successfully")
	} else {
		log.Warn("Running without a shared cache")
	}

	fetcher := services.NewHTTPFetcher(cfg.APIURL, cfg.LanguageKey, fetchTimeout, log)
	data := gamedata.NewService(cfg, fetcher, cache, log)

	r := handlers.NewRouter(data, cache, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * fetchTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if redis != nil {
		if err := redis.Close(); err != nil {
			log.Error("Error closing cache connection", "error", err)
		}
	}

	log.Info("Server exited")
}
