package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PieInTheSky-Inc/yadc/internal/config"
	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
	"github.com/PieInTheSky-Inc/yadc/internal/worker"
)

const fetchTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting YaDc Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL,
		"refresh_interval", cfg.RefreshInterval)

	if !cfg.RedisEnabled() {
		log.Error("The worker needs a shared cache, set REDIS_URL")
		os.Exit(1)
	}

	redis, err := services.NewRedisService(cfg.RedisURL, log)
	if err != nil {
		log.Error("Invalid Redis configuration", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			log.Error("Error closing cache connection", "error", err)
		}
	}()

	cacheCtx, cacheCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cacheCancel()
	if err := redis.WaitForConnection(cacheCtx); err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}
	log.Info("Cache connection established successfully")

	fetcher := services.NewHTTPFetcher(cfg.APIURL, cfg.LanguageKey, fetchTimeout, log)
	data := gamedata.NewService(cfg, fetcher, redis, log)

	w := worker.New(data, redis, gamedata.Kinds, cfg.RefreshInterval, log, os.Getenv("WORKER_ID"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give the current refresh time to finish
	select {
	case <-w.Done():
	case <-time.After(fetchTimeout):
		log.Warn("Worker did not finish in time")
	}

	log.Info("Worker exited")
}
