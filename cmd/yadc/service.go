package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/PieInTheSky-Inc/yadc/internal/config"
	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
)

const (
	fetchTimeout   = 30 * time.Second
	connectTimeout = 5 * time.Second
)

// openService builds the game data service the way the API does, logging to
// stderr so stdout stays clean for output. The returned func releases the
// cache connection.
func openService(ctx context.Context) (*gamedata.Service, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.SetupWriter(cfg, os.Stderr)

	var cache services.Cache
	closeCache := func() {}
	if cfg.RedisEnabled() {
		redis, err := services.NewRedisService(cfg.RedisURL, log)
		if err != nil {
			return nil, nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = redis.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("Cache unavailable, continuing without it", "error", err)
			_ = redis.Close()
		} else {
			cache = redis
			closeCache = func() {
				if err := redis.Close(); err != nil {
					log.Error("Error closing cache connection", "error", err)
				}
			}
		}
	}

	fetcher := services.NewHTTPFetcher(cfg.APIURL, cfg.LanguageKey, fetchTimeout, log)
	return gamedata.NewService(cfg, fetcher, cache, log), log, closeCache, nil
}

func parseKinds(args []string) ([]gamedata.Kind, error) {
	if len(args) == 0 {
		return gamedata.Kinds, nil
	}
	kinds := make([]gamedata.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := gamedata.ParseKind(arg)
		if err != nil {
			return nil, fmt.Errorf("%w (expected one of %v)", err, gamedata.Kinds)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
