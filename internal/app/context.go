package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/auth"
	"github.com/mixenapp/mixen-backend/internal/cache"
	"github.com/mixenapp/mixen-backend/internal/config"
	"github.com/mixenapp/mixen-backend/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, Notifier, etc.)
type AppContext struct {
	Cfg        *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Notifier   notify.Notifier
	Tokens     *auth.TokenService
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, notifier notify.Notifier, tokens *auth.TokenService, logger *slog.Logger) *AppContext {
	return &AppContext{
		Cfg:        cfg,
		DB:         db,
		RedisCache: rdb,
		Notifier:   notifier,
		Tokens:     tokens,
		Logger:     logger,
	}
}
