package main

import (
	"context"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/auth"
	"github.com/mixenapp/mixen-backend/internal/cache"
	"github.com/mixenapp/mixen-backend/internal/config"
	"github.com/mixenapp/mixen-backend/internal/db"
	"github.com/mixenapp/mixen-backend/internal/logger"
	"github.com/mixenapp/mixen-backend/internal/notify"
	"github.com/mixenapp/mixen-backend/internal/server"
	"github.com/mixenapp/mixen-backend/internal/service/account"
	"github.com/mixenapp/mixen-backend/internal/service/admin"
	"github.com/mixenapp/mixen-backend/internal/service/chat"
	"github.com/mixenapp/mixen-backend/internal/service/social"
	"github.com/mixenapp/mixen-backend/internal/service/verification"
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

	// Init notification publisher. Without a broker the server still
	// runs; notifications are recorded in memory and a warning is logged.
	var notifier notify.Notifier
	amqpNotifier, err := notify.NewAMQPNotifier(cfg)
	if err != nil {
		log.Warn("rabbitmq unavailable, notifications disabled", "err", err)
		notifier = notify.NewRecorder()
	} else {
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	tokens := auth.NewTokenService(cfg)

	appCtx := app.New(cfg, database, redisCache, notifier, tokens, log)

	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		verification.NewRegistrar(appCtx),
		social.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		admin.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
