// Package testutil wires an in-memory AppContext (SQLite + miniredis +
// recording notifier) for service and end-to-end tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/auth"
	"github.com/mixenapp/mixen-backend/internal/cache"
	"github.com/mixenapp/mixen-backend/internal/config"
	"github.com/mixenapp/mixen-backend/internal/db"
	"github.com/mixenapp/mixen-backend/internal/notify"
	"github.com/mixenapp/mixen-backend/internal/server"
)

// NewAppContext spins up an isolated AppContext per test: in-memory
// SQLite with the full schema, a miniredis, a recording notifier and a
// discarded logger.
func NewAppContext(t *testing.T) (*app.AppContext, *notify.Recorder) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	recorder := notify.NewRecorder()
	tokens := auth.NewTokenService(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	return app.New(cfg, database, redisCache, recorder, tokens, logger), recorder
}

// NewRouter builds the chi router with the given registrars mounted,
// including the global middleware.
func NewRouter(appCtx *app.AppContext, registrars ...server.Registrar) chi.Router {
	return server.NewRouter(appCtx, registrars...)
}

// SeedUser inserts a user with a profile in the given status and coin
// balance, and returns it with the Profile association populated.
func SeedUser(t *testing.T, appCtx *app.AppContext, id uint64, status string, coins int) db.User {
	t.Helper()

	user := db.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x",
		Profile: &db.Profile{
			Status: status,
			Coins:  coins,
			Age:    25,
			Bio:    "test bio",
		},
	}
	require.NoError(t, appCtx.DB.Create(&user).Error)
	return user
}

// SeedAdmin inserts an admin user with an approved profile.
func SeedAdmin(t *testing.T, appCtx *app.AppContext, id uint64) db.User {
	t.Helper()

	user := db.User{
		ID:           id,
		Username:     fmt.Sprintf("admin%d", id),
		Email:        fmt.Sprintf("admin%d@test.com", id),
		PasswordHash: "x",
		IsAdmin:      true,
		Profile: &db.Profile{
			Status: db.StatusApproved,
			Coins:  30,
		},
	}
	require.NoError(t, appCtx.DB.Create(&user).Error)
	return user
}

// AccessToken mints a valid access token for the given user.
func AccessToken(t *testing.T, appCtx *app.AppContext, user db.User) string {
	t.Helper()

	access, _, err := appCtx.Tokens.IssuePair(user.ID, user.Username)
	require.NoError(t, err)
	return access
}
