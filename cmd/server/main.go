package main

import (
	"context"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/cache"
	"github.com/harrygamon/Socials/internal/config"
	"github.com/harrygamon/Socials/internal/db"
	"github.com/harrygamon/Socials/internal/logger"
	"github.com/harrygamon/Socials/internal/notify"
	"github.com/harrygamon/Socials/internal/server"
	"github.com/harrygamon/Socials/internal/service/engagement"
	"github.com/harrygamon/Socials/internal/service/feed"
	"github.com/harrygamon/Socials/internal/service/match"
	"github.com/harrygamon/Socials/internal/service/messaging"
	"github.com/harrygamon/Socials/internal/service/profile"
	"github.com/harrygamon/Socials/internal/service/search"
	"github.com/harrygamon/Socials/internal/service/trending"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	notifier := notify.NewNotifier(redisCache.Client, log)

	appCtx := app.New(database, redisCache, notifier, log)

	registrars := []server.Registrar{
		match.NewRegistrar(appCtx),
		engagement.NewRegistrar(appCtx),
		trending.NewRegistrar(appCtx),
		feed.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		search.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("server stopped", "err", err)
	}
}
