// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/LavaJover/shvark-credit-service/internal/config"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres"
	"gorm.io/gorm"
)

var counter atomic.Int64

func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:credit_test_%d?mode=memory&cache=shared", counter.Add(1))
	db, err := postgres.Open(config.CreditDB{Driver: "sqlite", Dsn: dsn, AutoMigrate: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
