package repository_test

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// setupTestDB opens a fresh in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// seedUser inserts a user with a profile in the given status.
func seedUser(t *testing.T, gdb *gorm.DB, id uint64, status string, coins int) db.User {
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
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %d: %v", id, err)
	}
	return user
}
